package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Option 配置 Manager
type Option func(*Manager)

// WithLogger 设置日志
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l.With().Str("component", "notify").Logger() }
}

// WithStrictErrors 为 true 时把平台不兼容和引擎失败作为错误返回给调用方，
// 否则只记录日志并报告成功
func WithStrictErrors(strict bool) Option {
	return func(m *Manager) { m.strict = strict }
}

// WithHideReplaced 为 true 时同一标识再次 Show 会先撤回旧通知
func WithHideReplaced(hide bool) Option {
	return func(m *Manager) { m.hideReplaced = hide }
}

// Manager 通知会话管理器，维护标识到原生句柄的映射
type Manager struct {
	engine       Engine
	sink         Sink
	log          zerolog.Logger
	strict       bool
	hideReplaced bool

	mu          sync.Mutex
	initialized bool
	handles     map[string]Handle
}

// NewManager 创建管理器
func NewManager(engine Engine, sink Sink, opts ...Option) *Manager {
	m := &Manager{
		engine:       engine,
		sink:         sink,
		log:          zerolog.Nop(),
		hideReplaced: true,
		handles:      make(map[string]Handle),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Setup 初始化原生引擎，必须在第一次 Show 之前调用
func (m *Manager) Setup(ctx context.Context, appName string, policy ShortcutPolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.engine.Compatible() {
		m.log.Error().Str("app", appName).Msg("system is not supported by the notification engine")
		if m.strict {
			return ErrUnsupportedPlatform
		}
	}

	if err := m.engine.Initialize(appName, policy); err != nil {
		m.log.Error().Err(err).Str("app", appName).Stringer("shortcut_policy", policy).Msg("initialize engine")
		if m.strict {
			return fmt.Errorf("initialize engine: %w", err)
		}
	}

	m.initialized = true
	m.log.Debug().Str("app", appName).Stringer("shortcut_policy", policy).Msg("engine initialized")
	return nil
}

// Show 投递通知并记录 id -> 句柄，成功后发出 shown 事件
func (m *Manager) Show(ctx context.Context, id string, cfg Config) error {
	if id == "" {
		return fmt.Errorf("%w: identifier is required", ErrInvalidArgument)
	}

	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return ErrNotInitialized
	}

	if prev, ok := m.handles[id]; ok {
		if m.hideReplaced {
			if err := m.engine.Hide(ctx, prev); err != nil && !errors.Is(err, ErrNotSupported) {
				m.log.Warn().Err(err).Str("id", id).Int64("handle", int64(prev)).Msg("hide replaced notification")
			}
		} else {
			m.log.Debug().Str("id", id).Int64("handle", int64(prev)).Msg("replaced notification left on screen")
		}
		delete(m.handles, id)
	}

	h, err := m.engine.Show(ctx, cfg, func(ev NativeEvent) { m.dispatch(id, ev) })
	if err != nil {
		m.mu.Unlock()
		m.log.Error().Err(err).Str("id", id).Msg("show notification")
		if m.strict {
			return fmt.Errorf("show notification %q: %w", id, err)
		}
		return nil
	}
	m.handles[id] = h
	m.mu.Unlock()

	m.log.Debug().Str("id", id).Int64("handle", int64(h)).Msg("notification shown")
	m.emit(Event{Kind: EventShown, ID: id})
	return nil
}

// Close 撤回并移除 id 对应的通知，id 不存在时什么也不做
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked(ctx, id)
}

// CloseAll 关闭所有仍在映射中的通知
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, id := range m.idsLocked() {
		if err := m.closeLocked(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) closeLocked(ctx context.Context, id string) error {
	h, ok := m.handles[id]
	if !ok {
		return nil
	}
	delete(m.handles, id)

	err := m.engine.Hide(ctx, h)
	switch {
	case err == nil:
		m.log.Debug().Str("id", id).Int64("handle", int64(h)).Msg("notification closed")
	case errors.Is(err, ErrNotSupported):
		m.log.Debug().Str("id", id).Msg("engine cannot retract notifications")
	default:
		m.log.Error().Err(err).Str("id", id).Int64("handle", int64(h)).Msg("hide notification")
		if m.strict {
			return fmt.Errorf("close notification %q: %w", id, err)
		}
	}
	return nil
}

// Lookup 返回 id 当前绑定的句柄
func (m *Manager) Lookup(id string) (Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[id]
	return h, ok
}

// Len 当前映射中的通知数量
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

// IDs 按字典序返回所有标识
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idsLocked()
}

func (m *Manager) idsLocked() []string {
	ids := make([]string, 0, len(m.handles))
	for id := range m.handles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// dispatch 不修改映射：关闭事件之后条目仍保留，直到显式 Close 或被覆盖
func (m *Manager) dispatch(id string, ev NativeEvent) {
	out := Translate(id, ev)
	m.log.Debug().Str("id", id).Stringer("event", out.Kind).Int64("handle", int64(ev.Handle)).Msg("native event")
	m.emit(out)
}

func (m *Manager) emit(ev Event) {
	if m.sink == nil {
		return
	}
	m.sink.Emit(ev)
}
