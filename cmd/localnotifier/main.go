package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"localnotifier/internal/commands"
	"localnotifier/internal/config"
	"localnotifier/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "localnotifier",
		Usage:     "Desktop notification sidecar for the local_notifier method channel",
		UsageText: "localnotifier [global options] command [command options]",
		Description: `localnotifier is launched by a UI host as a child process. The host calls
setup, notify and close over stdin/stdout; clicks, button presses, text input
and dismissals come back as onLocalNotification* events.

Run 'localnotifier' with no arguments to serve the channel.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error); defaults to log.level from the config",
				Sources:     cli.EnvVars("LOCALNOTIFIER_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to log.file from the config, then stderr)",
				Sources:     cli.EnvVars("LOCALNOTIFIER_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("LOCALNOTIFIER_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			_, statErr := os.Stat(flags.ConfigPath)
			flags.ConfigCreated = errors.Is(statErr, os.ErrNotExist)

			cfg, cfgErr := config.Load(flags.ConfigPath)
			flags.Config = cfg
			flags.ConfigErr = cfgErr

			level, file := flags.LogLevel, flags.LogFile
			if level == "" {
				level = cfg.Log.Level
			}
			if file == "" {
				file = cfg.Log.File
			}

			logger, closer, err := logutils.New(level, file)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			if cfgErr != nil {
				log.Warn().Err(cfgErr).Str("path", flags.ConfigPath).Msg("config is invalid")
			}
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	serveCmd := commands.NewServeCmd(flags)

	app = serveCmd.Register(app)
	app = commands.NewActivateCmd(flags).Register(app)
	app = commands.NewNotifyCmd(flags).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)

	app.Flags = append(app.Flags, serveCmd.Flags()...)

	// Serve is the default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'localnotifier --help' for usage", c.Args().First())
		}
		return serveCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		// stdout 属于方法通道
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
