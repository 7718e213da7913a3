package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.design/x/hotkey/mainthread"

	"localnotifier/internal/activation"
	"localnotifier/internal/channel"
	"localnotifier/internal/config"
	"localnotifier/internal/hotkey"
	"localnotifier/internal/notify"
	"localnotifier/internal/plugin"
	"localnotifier/internal/tray"
)

type ServeCmd struct {
	flags *Flags

	tray bool
}

// NewServeCmd creates a new serve command.
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "serve",
		Usage: "Serve the local_notifier method channel on stdin/stdout",
		Description: `Runs the notification sidecar. The host writes one JSON method call per
line to stdin and reads replies and lifecycle events from stdout.

Logs never go to stdout; use --log-file or read stderr.`,
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})
	return app
}

// Flags are also registered on the root command, serve being the default action.
func (cmd *ServeCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "tray",
			Usage:       "show a tray icon (overrides behavior.tray)",
			Sources:     cli.EnvVars("LOCALNOTIFIER_TRAY"),
			Destination: &cmd.tray,
		},
	}
}

func (cmd *ServeCmd) Run(ctx context.Context, c *cli.Command) error {
	cfg, err := cmd.flags.RequireConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := log.Logger
	session := activation.NewSession()
	opts := notify.NativeOptions{Logger: logger}
	if cfg.Activation.Enabled {
		opts.ActivationURI = activation.URIBuilder(cfg.Activation.Scheme, session)
	}
	engine := notify.NewNativeEngine(opts)

	ch := channel.New(plugin.ChannelName, os.Stdin, os.Stdout, logger)
	p := plugin.Register(ch, engine, logger,
		notify.WithStrictErrors(cfg.Behavior.StrictErrors),
		notify.WithHideReplaced(cfg.Behavior.HideReplaced),
	)

	if cfg.Activation.Enabled {
		stop, err := startActivation(ctx, cfg, session, engine, logger)
		if err != nil {
			// 激活不可用时通知仍可显示，只是点击无法回传
			logger.Warn().Err(err).Msg("activation relay disabled")
		} else {
			defer stop()
		}
	}

	withTray := cmd.tray || cfg.Behavior.Tray
	if !withTray && cfg.Hotkey.Key == "" {
		return serveChannel(ctx, ch)
	}

	var runErr error
	mainthread.Init(func() {
		runErr = cmd.runWithUI(ctx, cancel, cfg, ch, p.Manager(), withTray)
	})
	return runErr
}

// runWithUI 在主线程上注册热键并运行托盘，通道在后台服务
func (cmd *ServeCmd) runWithUI(
	ctx context.Context,
	cancel context.CancelFunc,
	cfg *config.Config,
	ch *channel.Channel,
	mgr *notify.Manager,
	withTray bool,
) error {
	logger := log.With().Str("component", "serve").Logger()

	var t *tray.Tray
	closeAll := func() {
		if err := mgr.CloseAll(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("close all notifications")
		}
		if t != nil {
			t.Refresh()
		}
	}

	if cfg.Hotkey.Key != "" {
		hk := hotkey.NewManager()
		if err := hk.Register(cfg.Hotkey.Modifiers, cfg.Hotkey.Key, closeAll); err != nil {
			logger.Warn().Err(err).Str("hotkey", cfg.GetHotkeyString()).Msg("hotkey not registered")
		} else {
			defer func() { _ = hk.Unregister() }()
			hk.ListenAsync()
			logger.Info().Str("hotkey", cfg.GetHotkeyString()).Msg("close-all hotkey registered")
		}
	}

	errc := make(chan error, 1)
	go func() {
		errc <- serveChannel(ctx, ch)
		cancel()
	}()

	if !withTray {
		return <-errc
	}

	t = tray.NewTray(cfg.App.Name)
	t.SetHotkeyText(cfg.GetHotkeyString())
	t.SetCounter(mgr.Len)
	t.SetOnCloseAll(closeAll)
	t.SetOnQuit(cancel)

	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	t.Run()
	cancel()
	return <-errc
}

func serveChannel(ctx context.Context, ch *channel.Channel) error {
	err := ch.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// startActivation 启动回环激活服务并写入地址文件，返回清理函数
func startActivation(ctx context.Context, cfg *config.Config, session string, target notify.Deliverer, logger zerolog.Logger) (func(), error) {
	srv, err := activation.Listen(cfg.Activation.Listen, cfg.Activation.Scheme, session, target, logger)
	if err != nil {
		return nil, err
	}

	addrFile := cfg.AddrFilePath()
	if err := srv.WriteAddrFile(addrFile); err != nil {
		logger.Warn().Err(err).Str("addr_file", addrFile).Msg("activate command will not find this instance")
	}

	srvCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(srvCtx); err != nil {
			logger.Error().Err(err).Msg("activation server")
		}
	}()

	logger.Info().Str("addr", srv.Addr()).Str("addr_file", addrFile).Msg("activation relay listening")

	return func() {
		stop()
		<-done
		_ = os.Remove(addrFile)
	}, nil
}
