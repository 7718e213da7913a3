package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "localnotifier", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err, "defaults are written back")

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_OverridesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
app:
  name: "My App"
  shortcut_policy: requireCreate
behavior:
  strict_errors: true
  hide_replaced: false
hotkey:
  modifiers: [Control, Option]
  key: " N "
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My App", cfg.App.Name)
	assert.Equal(t, "requireCreate", cfg.App.ShortcutPolicy)
	assert.True(t, cfg.Behavior.StrictErrors)
	assert.False(t, cfg.Behavior.HideReplaced)
	assert.Equal(t, []string{"ctrl", "alt"}, cfg.Hotkey.Modifiers)
	assert.Equal(t, "n", cfg.Hotkey.Key)
	assert.Equal(t, "ctrl+alt+n", cfg.GetHotkeyString())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:0", cfg.Activation.Listen, "unset fields keep defaults")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0o644))

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.App.ShortcutPolicy = "always"
	cfg.Activation.Listen = "0.0.0.0:9000"
	cfg.Activation.Scheme = "9bad"
	cfg.Log.Level = "chatty"
	cfg.Hotkey = Hotkey{Modifiers: []string{"hyper"}, Key: "n"}

	err := cfg.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "app.shortcut_policy")
	assert.Contains(t, fields, "activation.listen")
	assert.Contains(t, fields, "activation.scheme")
	assert.Contains(t, fields, "log.level")
	assert.Contains(t, fields, "hotkey.modifiers[0]")
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidate_HotkeyNeedsModifier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hotkey = Hotkey{Key: "n"}
	assert.Error(t, cfg.Validate())
}

func TestAddrFilePath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(Dir(), "activation.addr"), cfg.AddrFilePath())

	cfg.Activation.AddrFile = "/tmp/custom.addr"
	assert.Equal(t, "/tmp/custom.addr", cfg.AddrFilePath())
}
