package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"localnotifier/internal/config"
)

type ConfigCmd struct {
	flags *Flags

	force bool
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Inspect and initialize the configuration file",
		Commands: []*cli.Command{
			{
				Name:   "path",
				Usage:  "Print the configuration file path",
				Action: cmd.runPath,
			},
			{
				Name:  "init",
				Usage: "Write the default configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "force",
						Aliases:     []string{"f"},
						Usage:       "overwrite an existing file",
						Destination: &cmd.force,
					},
				},
				Action: cmd.runInit,
			},
			{
				Name:   "validate",
				Usage:  "Validate the configuration file",
				Action: cmd.runValidate,
			},
		},
	})
	return app
}

func (cmd *ConfigCmd) runPath(_ context.Context, c *cli.Command) error {
	_, err := fmt.Fprintln(c.Root().Writer, cmd.flags.ConfigPath)
	return err
}

func (cmd *ConfigCmd) runInit(_ context.Context, c *cli.Command) error {
	path := cmd.flags.ConfigPath
	if _, err := os.Stat(path); err == nil && !cmd.flags.ConfigCreated && !cmd.force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	_, err := fmt.Fprintln(c.Root().Writer, "wrote", path)
	return err
}

func (cmd *ConfigCmd) runValidate(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	err := cmd.flags.ConfigErr

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			_, _ = fmt.Fprintf(w, "  %s: %v\n", fe.Field, fe.Err)
		}
		return fmt.Errorf("%s: %d invalid field(s)", cmd.flags.ConfigPath, len(fieldErrs))
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, cmd.flags.ConfigPath, "is valid")
	return err
}
