package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"localnotifier/internal/activation"
	"localnotifier/internal/notify"
)

// App 显示名称与快捷方式策略，宿主调用 setup 时会覆盖
type App struct {
	Name           string `yaml:"name"`
	ShortcutPolicy string `yaml:"shortcut_policy"` // ignore, requireNoCreate, requireCreate
}

// Behavior 行为配置
type Behavior struct {
	StrictErrors bool `yaml:"strict_errors"` // 平台不兼容、引擎失败时向宿主返回错误
	HideReplaced bool `yaml:"hide_replaced"` // 同一标识再次显示时先撤回旧通知
	Tray         bool `yaml:"tray"`          // 显示托盘图标
}

// Activation 协议激活配置
type Activation struct {
	Enabled  bool   `yaml:"enabled"`
	Scheme   string `yaml:"scheme"`
	Listen   string `yaml:"listen"`    // 仅允许回环地址
	AddrFile string `yaml:"addr_file"` // 为空时放在配置目录下
}

// Hotkey 关闭全部通知的全局快捷键，Key 为空时不注册
type Hotkey struct {
	Modifiers []string `yaml:"modifiers"` // ctrl, alt, shift, win
	Key       string   `yaml:"key"`
}

// Log 日志配置，命令行参数优先
type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config 主配置结构
type Config struct {
	App        App        `yaml:"app"`
	Behavior   Behavior   `yaml:"behavior"`
	Activation Activation `yaml:"activation"`
	Hotkey     Hotkey     `yaml:"hotkey"`
	Log        Log        `yaml:"log"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		App: App{
			Name:           "localnotifier",
			ShortcutPolicy: "ignore",
		},
		Behavior: Behavior{
			StrictErrors: false,
			HideReplaced: true,
			Tray:         false,
		},
		Activation: Activation{
			Enabled: runtime.GOOS == "windows",
			Scheme:  activation.DefaultScheme,
			Listen:  "127.0.0.1:0",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Dir 配置目录
func Dir() string {
	var configDir string

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			homeDir, _ := os.UserHomeDir()
			configDir = filepath.Join(homeDir, "AppData", "Roaming")
		}
	} else {
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			homeDir, _ := os.UserHomeDir()
			configDir = filepath.Join(homeDir, ".config")
		}
	}

	return filepath.Join(configDir, "localnotifier")
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load 加载配置，文件不存在时写入并返回默认配置
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		_ = cfg.Save(path)
		return cfg, nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// normalize 修正可以自动修正的值
func (c *Config) normalize() {
	defaults := DefaultConfig()

	if strings.TrimSpace(c.App.Name) == "" {
		c.App.Name = defaults.App.Name
	}
	if c.App.ShortcutPolicy == "" {
		c.App.ShortcutPolicy = defaults.App.ShortcutPolicy
	}
	if c.Activation.Scheme == "" {
		c.Activation.Scheme = defaults.Activation.Scheme
	}
	if c.Activation.Listen == "" {
		c.Activation.Listen = defaults.Activation.Listen
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}

	aliases := map[string]string{"control": "ctrl", "option": "alt", "cmd": "win", "command": "win", "super": "win"}
	var mods []string
	for _, mod := range c.Hotkey.Modifiers {
		mod = strings.ToLower(strings.TrimSpace(mod))
		if alias, ok := aliases[mod]; ok {
			mod = alias
		}
		mods = append(mods, mod)
	}
	c.Hotkey.Modifiers = mods
	c.Hotkey.Key = strings.ToLower(strings.TrimSpace(c.Hotkey.Key))
}

// Validate 校验配置，返回 criterio 字段错误
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("app.shortcut_policy", c.App.ShortcutPolicy, validShortcutPolicy),
		criterio.Run("activation.scheme", c.Activation.Scheme, validScheme),
		criterio.Run("activation.listen", c.Activation.Listen, loopbackAddr),
		criterio.Run("log.level", c.Log.Level, validLogLevel),
		c.validateHotkey(),
	)
}

func (c *Config) validateHotkey() error {
	if c.Hotkey.Key == "" {
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	valid := map[string]bool{"ctrl": true, "alt": true, "shift": true, "win": true}
	for i, mod := range c.Hotkey.Modifiers {
		if !valid[mod] {
			errs = errs.Append(fmt.Sprintf("hotkey.modifiers[%d]", i), fmt.Errorf("unknown modifier %q", mod))
		}
	}
	if len(c.Hotkey.Modifiers) == 0 {
		errs = errs.Append("hotkey.modifiers", errors.New("at least one modifier is required"))
	}
	return errs.ToError()
}

func validShortcutPolicy(s string) error {
	_, err := notify.ParseShortcutPolicy(s)
	return err
}

func validScheme(s string) error {
	if s == "" {
		return errors.New("scheme is required")
	}
	for i, r := range s {
		alpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 && !alpha {
			return fmt.Errorf("scheme %q must start with a letter", s)
		}
		if !alpha && !(r >= '0' && r <= '9') && r != '+' && r != '-' && r != '.' {
			return fmt.Errorf("scheme %q contains invalid character %q", s, r)
		}
	}
	return nil
}

func loopbackAddr(s string) error {
	host, _, err := net.SplitHostPort(s)
	if err != nil {
		return err
	}
	if host != "127.0.0.1" && host != "localhost" && host != "::1" {
		return fmt.Errorf("listen address %q must be a loopback address", s)
	}
	return nil
}

func validLogLevel(s string) error {
	_, err := zerolog.ParseLevel(s)
	return err
}

// AddrFilePath 激活地址文件路径
func (c *Config) AddrFilePath() string {
	if c.Activation.AddrFile != "" {
		return c.Activation.AddrFile
	}
	return filepath.Join(Dir(), "activation.addr")
}

// Save 保存配置
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// GetHotkeyString 获取快捷键的字符串表示
func (c *Config) GetHotkeyString() string {
	if c.Hotkey.Key == "" {
		return ""
	}
	return strings.Join(append(append([]string{}, c.Hotkey.Modifiers...), c.Hotkey.Key), "+")
}
