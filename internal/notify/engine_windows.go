//go:build windows

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/go-toast/toast"
	"github.com/rs/zerolog"
)

// NativeEngine 基于 go-toast 的 Windows 通知实现
type NativeEngine struct {
	*CallbackTable

	opts NativeOptions
	log  zerolog.Logger

	mu     sync.Mutex
	appID  string
	policy ShortcutPolicy
}

// NewNativeEngine 创建 Windows 通知引擎
func NewNativeEngine(opts NativeOptions) *NativeEngine {
	return &NativeEngine{
		CallbackTable: NewCallbackTable(),
		opts:          opts,
		log:           opts.Logger.With().Str("component", "toast").Logger(),
	}
}

// Compatible go-toast 通过 PowerShell 投递通知
func (e *NativeEngine) Compatible() bool {
	_, err := exec.LookPath("powershell")
	return err == nil
}

func (e *NativeEngine) Initialize(appName string, policy ShortcutPolicy) error {
	if appName == "" {
		return fmt.Errorf("%w: app name is required", ErrInvalidArgument)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.appID = appName
	e.policy = policy

	if policy != ShortcutIgnore {
		// 快捷方式与 AppUserModelID 由安装程序负责注册
		e.log.Info().Stringer("shortcut_policy", policy).Msg("expecting start menu shortcut to be registered by the installer")
	}
	return nil
}

// Show 异步投递（不阻塞调用方），失败通过 NativeFailed 回调上报
func (e *NativeEngine) Show(ctx context.Context, cfg Config, cb Callback) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	h := e.Register(cb)
	n := e.build(h, cfg)

	if cfg.Input != nil {
		e.log.Warn().Int64("handle", int64(h)).Msg("toast backend cannot render text input, field dropped")
	}

	go func() {
		if err := n.Push(); err != nil {
			e.log.Error().Err(err).Int64("handle", int64(h)).Msg("push toast")
			e.Deliver(NativeEvent{Handle: h, Kind: NativeFailed})
		}
	}()
	return h, nil
}

// Hide go-toast 无法撤回已显示的通知，只释放回调
func (e *NativeEngine) Hide(_ context.Context, h Handle) error {
	e.Release(h)
	return ErrNotSupported
}

func (e *NativeEngine) build(h Handle, cfg Config) toast.Notification {
	e.mu.Lock()
	appID := e.appID
	e.mu.Unlock()

	n := toast.Notification{
		AppID:   appID,
		Title:   cfg.Title,
		Message: cfg.Message(),
	}

	if cfg.Type.HasImage() && cfg.ImagePath != "" {
		n.Icon = cfg.ImagePath
	}

	switch cfg.Duration {
	case DurationShort:
		n.Duration = "short"
	case DurationLong:
		n.Duration = "long"
	}

	setAudio(&n, cfg)

	if e.opts.ActivationURI != nil {
		n.ActivationType = "protocol"
		n.ActivationArguments = e.opts.ActivationURI(h, -1)
	}
	for i, a := range cfg.Actions {
		action := toast.Action{Type: "protocol", Label: a.Text}
		if e.opts.ActivationURI != nil {
			action.Arguments = e.opts.ActivationURI(h, i)
		}
		n.Actions = append(n.Actions, action)
	}

	return n
}

func setAudio(n *toast.Notification, cfg Config) {
	switch cfg.SoundOption {
	case SoundOptionSilent:
		n.Audio = toast.Silent
		return
	case SoundOptionLoop:
		n.Loop = true
	}

	switch cfg.Sound {
	case SoundDefault:
		n.Audio = toast.Default
	case SoundIM:
		n.Audio = toast.IM
	case SoundMail:
		n.Audio = toast.Mail
	case SoundReminder:
		n.Audio = toast.Reminder
	case SoundSMS:
		n.Audio = toast.SMS
	case SoundAlarm:
		n.Audio = toast.LoopingAlarm
	case SoundAlarm2:
		n.Audio = toast.LoopingAlarm2
	case SoundAlarm3:
		n.Audio = toast.LoopingAlarm3
	case SoundAlarm4:
		n.Audio = toast.LoopingAlarm4
	case SoundAlarm5:
		n.Audio = toast.LoopingAlarm5
	case SoundAlarm6:
		n.Audio = toast.LoopingAlarm6
	case SoundAlarm7:
		n.Audio = toast.LoopingAlarm7
	case SoundAlarm8:
		n.Audio = toast.LoopingAlarm8
	case SoundAlarm9:
		n.Audio = toast.LoopingAlarm9
	case SoundAlarm10:
		n.Audio = toast.LoopingAlarm10
	case SoundCall, SoundCall1:
		// go-toast 没有 Call1，系统声音里 Looping.Call 即第一段来电铃声
		n.Audio = toast.LoopingCall
	case SoundCall2:
		n.Audio = toast.LoopingCall2
	case SoundCall3:
		n.Audio = toast.LoopingCall3
	case SoundCall4:
		n.Audio = toast.LoopingCall4
	case SoundCall5:
		n.Audio = toast.LoopingCall5
	case SoundCall6:
		n.Audio = toast.LoopingCall6
	case SoundCall7:
		n.Audio = toast.LoopingCall7
	case SoundCall8:
		n.Audio = toast.LoopingCall8
	case SoundCall9:
		n.Audio = toast.LoopingCall9
	case SoundCall10:
		n.Audio = toast.LoopingCall10
	}
}
