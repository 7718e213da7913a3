package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Engine 原生通知引擎
type Engine interface {
	// Compatible 当前系统是否支持该引擎
	Compatible() bool

	// Initialize 设置显示名称与快捷方式策略
	Initialize(appName string, policy ShortcutPolicy) error

	// Show 投递通知，cb 接收该通知之后的所有原生回调
	Show(ctx context.Context, cfg Config, cb Callback) (Handle, error)

	// Hide 撤回已显示的通知
	Hide(ctx context.Context, h Handle) error
}

// Deliverer 接收从外部（例如协议激活）转发来的原生事件
type Deliverer interface {
	Deliver(ev NativeEvent) bool
}

// CallbackTable 句柄到回调的映射，供引擎实现复用
type CallbackTable struct {
	mu        sync.Mutex
	next      Handle
	callbacks map[Handle]Callback
}

// NewCallbackTable 创建回调表
func NewCallbackTable() *CallbackTable {
	return &CallbackTable{callbacks: make(map[Handle]Callback)}
}

// Register 分配新句柄并绑定回调
func (t *CallbackTable) Register(cb Callback) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	t.callbacks[t.next] = cb
	return t.next
}

// Release 释放句柄，之后到达的事件会被丢弃
func (t *CallbackTable) Release(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.callbacks, h)
}

// Deliver 把事件交给句柄绑定的回调，句柄未知时返回 false
func (t *CallbackTable) Deliver(ev NativeEvent) bool {
	t.mu.Lock()
	cb, ok := t.callbacks[ev.Handle]
	t.mu.Unlock()

	if !ok || cb == nil {
		return false
	}
	cb(ev)
	return true
}

// Len 已注册的句柄数量
func (t *CallbackTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.callbacks)
}

// NativeOptions 平台引擎参数
type NativeOptions struct {
	Logger zerolog.Logger

	// ActivationURI 生成点击通知（action < 0）或按钮时由系统打开的 URI，
	// 为 nil 时不注册激活
	ActivationURI func(h Handle, action int) string
}
