package plugin

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"localnotifier/internal/notify"
)

type setupArgs struct {
	AppName        string `json:"appName"`
	ShortcutPolicy string `json:"shortcutPolicy"`
}

func (a setupArgs) parse() (string, notify.ShortcutPolicy, error) {
	var errs criterio.FieldErrorsBuilder

	if err := required(a.AppName); err != nil {
		errs = errs.Append("appName", err)
	}
	policy, err := notify.ParseShortcutPolicy(a.ShortcutPolicy)
	if err != nil {
		errs = errs.Append("shortcutPolicy", err)
	}

	return a.AppName, policy, errs.ToError()
}

type actionArgs struct {
	Text string `json:"text"`
}

type notifyArgs struct {
	Identifier       string       `json:"identifier"`
	Type             string       `json:"type"`
	Title            *string      `json:"title"`
	Body             string       `json:"body"`
	Body2            string       `json:"body2"`
	AttributionText  string       `json:"attributionText"`
	ImagePath        string       `json:"imagePath"`
	SystemSound      string       `json:"systemSound"`
	SoundOption      string       `json:"soundOption"`
	HasInput         bool         `json:"hasInput"`
	InputPlaceholder string       `json:"inputPlaceholder"`
	InputButtonText  string       `json:"inputButtonText"`
	Actions          []actionArgs `json:"actions"`
	Duration         string       `json:"duration"`
}

// config 汇总所有字段错误后一起返回
func (a notifyArgs) config() (notify.Config, error) {
	var (
		errs criterio.FieldErrorsBuilder
		cfg  = notify.Config{
			Body:            a.Body,
			Body2:           a.Body2,
			AttributionText: a.AttributionText,
			ImagePath:       a.ImagePath,
		}
		err error
	)

	if err := required(a.Identifier); err != nil {
		errs = errs.Append("identifier", err)
	}
	// 空标题允许，缺少字段不允许
	if a.Title == nil {
		errs = errs.Append("title", fmt.Errorf("%w: value is required", notify.ErrInvalidArgument))
	} else {
		cfg.Title = *a.Title
	}
	if cfg.Type, err = notify.ParseTemplateType(a.Type); err != nil {
		errs = errs.Append("type", err)
	}
	if cfg.Sound, err = notify.ParseSound(a.SystemSound); err != nil {
		errs = errs.Append("systemSound", err)
	}
	if cfg.SoundOption, err = notify.ParseSoundOption(a.SoundOption); err != nil {
		errs = errs.Append("soundOption", err)
	}
	if cfg.Duration, err = notify.ParseDuration(a.Duration); err != nil {
		errs = errs.Append("duration", err)
	}

	for i, action := range a.Actions {
		if err := required(action.Text); err != nil {
			errs = errs.Append(fmt.Sprintf("actions[%d].text", i), err)
			continue
		}
		cfg.Actions = append(cfg.Actions, notify.Action{Text: action.Text})
	}

	if a.HasInput {
		cfg.Input = &notify.Input{Placeholder: a.InputPlaceholder, ButtonText: a.InputButtonText}
	}

	return cfg, errs.ToError()
}

type closeArgs struct {
	Identifier string `json:"identifier"`
}

func (a closeArgs) parse() (string, error) {
	return a.Identifier, criterio.Run("identifier", a.Identifier, required)
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: value is required", notify.ErrInvalidArgument)
	}
	return nil
}
