package commands

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"localnotifier/internal/notify"
	"localnotifier/internal/plugin"
)

type NotifyCmd struct {
	flags *Flags

	id          string
	kind        string
	title       string
	body        string
	body2       string
	attribution string
	image       string
	sound       string
	soundOption string
	duration    string
	actions     []string
	wait        time.Duration
}

// NewNotifyCmd creates a new notify command.
func NewNotifyCmd(flags *Flags) *NotifyCmd {
	return &NotifyCmd{flags: flags}
}

// Register adds the notify command to the application.
func (cmd *NotifyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "notify",
		Usage: "Show a single notification and print its lifecycle events",
		Description: `Posts one notification through the native engine without a host.

Lifecycle events are printed to stdout as JSON lines in the same shape the
serve command sends to the host. The command exits after --wait or once the
notification closes or fails.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "id",
				Usage:       "notification identifier (defaults to a random UUID)",
				Destination: &cmd.id,
			},
			&cli.StringFlag{
				Name:        "type",
				Usage:       "template type (text01..text04, imageAndText01..imageAndText04)",
				Value:       "text02",
				Destination: &cmd.kind,
			},
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "notification title",
				Required:    true,
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "body",
				Aliases:     []string{"b"},
				Usage:       "first body line",
				Destination: &cmd.body,
			},
			&cli.StringFlag{
				Name:        "body2",
				Usage:       "second body line",
				Destination: &cmd.body2,
			},
			&cli.StringFlag{
				Name:        "attribution",
				Usage:       "attribution text",
				Destination: &cmd.attribution,
			},
			&cli.StringFlag{
				Name:        "image",
				Usage:       "image path for imageAndText templates",
				Destination: &cmd.image,
			},
			&cli.StringFlag{
				Name:        "sound",
				Usage:       "system sound (defaultSound, im, mail, reminder, sms, alarm..alarm10, call..call10)",
				Destination: &cmd.sound,
			},
			&cli.StringFlag{
				Name:        "sound-option",
				Usage:       "sound option (defaultOption, silent, loop)",
				Destination: &cmd.soundOption,
			},
			&cli.StringFlag{
				Name:        "duration",
				Usage:       "display duration (system, short, long)",
				Destination: &cmd.duration,
			},
			&cli.StringSliceFlag{
				Name:        "action",
				Aliases:     []string{"a"},
				Usage:       "button text, may be repeated",
				Destination: &cmd.actions,
			},
			&cli.DurationFlag{
				Name:        "wait",
				Usage:       "how long to wait for lifecycle events",
				Value:       5 * time.Second,
				Destination: &cmd.wait,
			},
		},
		Action: cmd.run,
	})
	return app
}

// config 由命令行参数构造通知配置，枚举字符串按宿主协议解析
func (cmd *NotifyCmd) config() (notify.Config, error) {
	var (
		cfg notify.Config
		err error
	)

	if cfg.Type, err = notify.ParseTemplateType(cmd.kind); err != nil {
		return cfg, err
	}
	if cfg.Sound, err = notify.ParseSound(cmd.sound); err != nil {
		return cfg, err
	}
	if cfg.SoundOption, err = notify.ParseSoundOption(cmd.soundOption); err != nil {
		return cfg, err
	}
	if cfg.Duration, err = notify.ParseDuration(cmd.duration); err != nil {
		return cfg, err
	}

	cfg.Title = cmd.title
	cfg.Body = cmd.body
	cfg.Body2 = cmd.body2
	cfg.AttributionText = cmd.attribution
	cfg.ImagePath = cmd.image
	for _, text := range cmd.actions {
		cfg.Actions = append(cfg.Actions, notify.Action{Text: text})
	}
	return cfg, nil
}

func (cmd *NotifyCmd) run(ctx context.Context, c *cli.Command) error {
	appCfg, err := cmd.flags.RequireConfig()
	if err != nil {
		return err
	}

	nc, err := cmd.config()
	if err != nil {
		return err
	}
	policy, err := notify.ParseShortcutPolicy(appCfg.App.ShortcutPolicy)
	if err != nil {
		return err
	}

	id := cmd.id
	if id == "" {
		id = uuid.NewString()
	}

	done := make(chan struct{}, 1)
	sink := printSink(c.Root().Writer, done)

	engine := notify.NewNativeEngine(notify.NativeOptions{Logger: log.Logger})
	mgr := notify.NewManager(engine, sink,
		notify.WithLogger(log.Logger),
		notify.WithStrictErrors(true),
	)

	if err := mgr.Setup(ctx, appCfg.App.Name, policy); err != nil {
		return err
	}
	if err := mgr.Show(ctx, id, nc); err != nil {
		return err
	}

	select {
	case <-done:
	case <-time.After(cmd.wait):
	case <-ctx.Done():
	}
	return nil
}

// printSink 把事件按宿主协议编码成 JSON 行，关闭或失败时发出 done
func printSink(w io.Writer, done chan<- struct{}) notify.Sink {
	var mu sync.Mutex
	enc := json.NewEncoder(w)
	return notify.SinkFunc(func(ev notify.Event) {
		method, args := plugin.Encode(ev)

		mu.Lock()
		defer mu.Unlock()
		if err := enc.Encode(map[string]any{"method": method, "arguments": args}); err != nil {
			log.Error().Err(err).Msg("print event")
		}

		if ev.Kind == notify.EventClosed || ev.Kind == notify.EventFailed {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})
}
