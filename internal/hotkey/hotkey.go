package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported 当前平台不支持全局快捷键
var ErrUnsupported = errors.New("global hotkeys are not supported on this platform")

// Manager 热键管理器
type Manager struct {
	platform
	callback func()
}

// NewManager 创建热键管理器
func NewManager() *Manager {
	return &Manager{}
}

// Register 注册热键，modifiers 与 key 使用配置中的写法（ctrl, alt, shift, win / a-z, 0-9, f1-f12）
func (m *Manager) Register(modifiers []string, key string, callback func()) error {
	if key == "" {
		return fmt.Errorf("hotkey key is required")
	}
	if err := m.register(modifiers, strings.ToLower(key)); err != nil {
		return fmt.Errorf("register hotkey %s: %w", Format(modifiers, key), err)
	}
	m.callback = callback
	return nil
}

// Unregister 注销热键
func (m *Manager) Unregister() error {
	return m.unregister()
}

// Listen 开始监听热键（阻塞）
func (m *Manager) Listen() {
	ch := m.keydown()
	if ch == nil {
		return
	}
	for range ch {
		if m.callback != nil {
			m.callback()
		}
	}
}

// ListenAsync 异步监听热键
func (m *Manager) ListenAsync() {
	go m.Listen()
}

// Format 快捷键的显示字符串
func Format(modifiers []string, key string) string {
	return strings.Join(append(append([]string{}, modifiers...), key), "+")
}
