package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"localnotifier/internal/activation"
)

type ActivateCmd struct {
	flags *Flags
}

// NewActivateCmd creates a new activate command.
func NewActivateCmd(flags *Flags) *ActivateCmd {
	return &ActivateCmd{flags: flags}
}

// Register adds the activate command to the application.
func (cmd *ActivateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "activate",
		Usage:     "Forward a notification activation URI to the running instance",
		UsageText: "localnotifier activate <uri>",
		Description: `Invoked by the operating system when the user clicks a notification or one
of its buttons. The URI is relayed to the serve process that posted the
notification, which emits the click event to the host.`,
		Action: cmd.run,
	})
	return app
}

func (cmd *ActivateCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one activation URI, got %d arguments", c.Args().Len())
	}
	uri := c.Args().First()

	cfg, err := cmd.flags.RequireConfig()
	if err != nil {
		return err
	}

	addr, err := activation.ReadAddrFile(cfg.AddrFilePath())
	if err != nil {
		return fmt.Errorf("find running instance: %w", err)
	}

	delivered, err := activation.Forward(ctx, addr, uri)
	if err != nil {
		if errors.Is(err, activation.ErrNotRunning) {
			log.Warn().Str("addr", addr).Msg("stale activation address file")
		}
		return err
	}

	// 通知已被关闭或来自旧进程时找不到句柄，不视为错误
	log.Debug().Str("uri", uri).Bool("delivered", delivered).Msg("activation forwarded")
	return nil
}
