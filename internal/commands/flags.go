package commands

import (
	"localnotifier/internal/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands.
	// ConfigErr holds the load/validation error so that commands which
	// only inspect the file (config path, config validate) still run.
	Config    *config.Config
	ConfigErr error

	// ConfigCreated reports that the file did not exist and Load wrote defaults.
	ConfigCreated bool
}

// DefaultConfigPath returns the platform config path.
func DefaultConfigPath() string {
	return config.GetConfigPath()
}

// RequireConfig returns the loaded config or the error that prevented loading it.
func (f *Flags) RequireConfig() (*config.Config, error) {
	if f.ConfigErr != nil {
		return nil, f.ConfigErr
	}
	if f.Config == nil {
		return config.DefaultConfig(), nil
	}
	return f.Config, nil
}
