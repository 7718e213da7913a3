package notify

import (
	"fmt"
	"strconv"
	"strings"
)

// Handle 原生引擎返回的通知句柄，只对引擎本身有意义
type Handle int64

// TemplateType 通知模板布局
type TemplateType int

const (
	TemplateText01 TemplateType = iota
	TemplateText02
	TemplateText03
	TemplateText04
	TemplateImageAndText01
	TemplateImageAndText02
	TemplateImageAndText03
	TemplateImageAndText04
)

var templateTypes = map[string]TemplateType{
	"text01":         TemplateText01,
	"text02":         TemplateText02,
	"text03":         TemplateText03,
	"text04":         TemplateText04,
	"imageAndText01": TemplateImageAndText01,
	"imageAndText02": TemplateImageAndText02,
	"imageAndText03": TemplateImageAndText03,
	"imageAndText04": TemplateImageAndText04,
}

// ParseTemplateType 解析模板类型，接受 "text02" 或 "LocalNotificationType.text02"
func ParseTemplateType(s string) (TemplateType, error) {
	t, ok := templateTypes[trimEnumPrefix(s, "LocalNotificationType.")]
	if !ok {
		return 0, fmt.Errorf("%w: unknown notification type %q", ErrInvalidArgument, s)
	}
	return t, nil
}

// Lines 返回模板可显示的文本行数
func (t TemplateType) Lines() int {
	switch t {
	case TemplateText01, TemplateImageAndText01:
		return 1
	case TemplateText04, TemplateImageAndText04:
		return 3
	default:
		return 2
	}
}

// HasImage 模板是否带图片
func (t TemplateType) HasImage() bool {
	return t >= TemplateImageAndText01
}

func (t TemplateType) String() string {
	return reverseLookup(templateTypes, t)
}

// Sound 系统提示音
type Sound int

const (
	SoundUnset Sound = iota
	SoundDefault
	SoundIM
	SoundMail
	SoundReminder
	SoundSMS
	SoundAlarm
	SoundAlarm2
	SoundAlarm3
	SoundAlarm4
	SoundAlarm5
	SoundAlarm6
	SoundAlarm7
	SoundAlarm8
	SoundAlarm9
	SoundAlarm10
	SoundCall
	SoundCall1
	SoundCall2
	SoundCall3
	SoundCall4
	SoundCall5
	SoundCall6
	SoundCall7
	SoundCall8
	SoundCall9
	SoundCall10
)

var sounds = map[string]Sound{
	"defaultSound": SoundDefault,
	"im":           SoundIM,
	"mail":         SoundMail,
	"reminder":     SoundReminder,
	"sms":          SoundSMS,
	"alarm":        SoundAlarm,
	"alarm2":       SoundAlarm2,
	"alarm3":       SoundAlarm3,
	"alarm4":       SoundAlarm4,
	"alarm5":       SoundAlarm5,
	"alarm6":       SoundAlarm6,
	"alarm7":       SoundAlarm7,
	"alarm8":       SoundAlarm8,
	"alarm9":       SoundAlarm9,
	"alarm10":      SoundAlarm10,
	"call":         SoundCall,
	"call1":        SoundCall1,
	"call2":        SoundCall2,
	"call3":        SoundCall3,
	"call4":        SoundCall4,
	"call5":        SoundCall5,
	"call6":        SoundCall6,
	"call7":        SoundCall7,
	"call8":        SoundCall8,
	"call9":        SoundCall9,
	"call10":       SoundCall10,
}

// ParseSound 解析提示音，空字符串表示未指定
func ParseSound(s string) (Sound, error) {
	if s == "" {
		return SoundUnset, nil
	}
	v, ok := sounds[trimEnumPrefix(s, "LocalNotificationSound.")]
	if !ok {
		return SoundUnset, fmt.Errorf("%w: unknown system sound %q", ErrInvalidArgument, s)
	}
	return v, nil
}

// IsAlarm 闹钟类提示音
func (s Sound) IsAlarm() bool {
	return s >= SoundAlarm && s <= SoundAlarm10
}

// IsCall 来电类提示音
func (s Sound) IsCall() bool {
	return s >= SoundCall && s <= SoundCall10
}

func (s Sound) String() string {
	if s == SoundUnset {
		return ""
	}
	return reverseLookup(sounds, s)
}

// SoundOption 提示音播放方式
type SoundOption int

const (
	SoundOptionDefault SoundOption = iota
	SoundOptionSilent
	SoundOptionLoop
)

var soundOptions = map[string]SoundOption{
	"defaultOption": SoundOptionDefault,
	"silent":        SoundOptionSilent,
	"loop":          SoundOptionLoop,
}

// ParseSoundOption 解析播放方式，空字符串为默认
func ParseSoundOption(s string) (SoundOption, error) {
	if s == "" {
		return SoundOptionDefault, nil
	}
	v, ok := soundOptions[trimEnumPrefix(s, "LocalNotificationSoundOption.")]
	if !ok {
		return SoundOptionDefault, fmt.Errorf("%w: unknown sound option %q", ErrInvalidArgument, s)
	}
	return v, nil
}

func (o SoundOption) String() string {
	return reverseLookup(soundOptions, o)
}

// Duration 显示时长等级
type Duration int

const (
	DurationSystem Duration = iota
	DurationShort
	DurationLong
)

var durations = map[string]Duration{
	"system": DurationSystem,
	"short":  DurationShort,
	"long":   DurationLong,
}

// ParseDuration 解析显示时长，空字符串为系统默认
func ParseDuration(s string) (Duration, error) {
	if s == "" {
		return DurationSystem, nil
	}
	v, ok := durations[trimEnumPrefix(s, "LocalNotificationDuration.")]
	if !ok {
		return DurationSystem, fmt.Errorf("%w: unknown duration %q", ErrInvalidArgument, s)
	}
	return v, nil
}

func (d Duration) String() string {
	return reverseLookup(durations, d)
}

// ShortcutPolicy 快捷方式策略
type ShortcutPolicy int

const (
	ShortcutIgnore ShortcutPolicy = iota
	ShortcutRequireNoCreate
	ShortcutRequireCreate
)

var shortcutPolicies = map[string]ShortcutPolicy{
	"ignore":          ShortcutIgnore,
	"requireNoCreate": ShortcutRequireNoCreate,
	"requireCreate":   ShortcutRequireCreate,
}

// ParseShortcutPolicy 解析快捷方式策略
func ParseShortcutPolicy(s string) (ShortcutPolicy, error) {
	v, ok := shortcutPolicies[trimEnumPrefix(s, "ShortcutPolicy.")]
	if !ok {
		return ShortcutIgnore, fmt.Errorf("%w: unknown shortcut policy %q", ErrInvalidArgument, s)
	}
	return v, nil
}

func (p ShortcutPolicy) String() string {
	return reverseLookup(shortcutPolicies, p)
}

// Action 通知按钮
type Action struct {
	Text string
}

// Input 单行输入框
type Input struct {
	Placeholder string
	ButtonText  string
}

// Config 通知内容配置，纯输入值
type Config struct {
	Type            TemplateType
	Title           string
	Body            string
	Body2           string
	AttributionText string
	ImagePath       string
	Sound           Sound
	SoundOption     SoundOption
	Actions         []Action
	Input           *Input
	Duration        Duration
}

// TextLines 按模板行数返回非空文本行
func (c Config) TextLines() []string {
	lines := []string{c.Title}
	for _, l := range []string{c.Body, c.Body2} {
		if len(lines) >= c.Type.Lines() {
			break
		}
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Message 标题之外的正文，署名文字作为最后一行
func (c Config) Message() string {
	lines := c.TextLines()[1:]
	if c.AttributionText != "" {
		lines = append(lines, c.AttributionText)
	}
	return strings.Join(lines, "\n")
}

func trimEnumPrefix(s, prefix string) string {
	return strings.TrimPrefix(s, prefix)
}

func reverseLookup[T ~int](m map[string]T, v T) string {
	for k, mv := range m {
		if mv == v {
			return k
		}
	}
	return "unknown(" + strconv.Itoa(int(v)) + ")"
}
