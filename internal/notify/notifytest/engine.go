// Package notifytest provides an in-memory notify.Engine for tests.
package notifytest

import (
	"context"
	"sync"

	"localnotifier/internal/notify"
)

// Posted is a notification recorded by Engine.Show.
type Posted struct {
	Handle notify.Handle
	Config notify.Config
	Hidden bool
}

// Engine records every call and lets tests fire native events.
type Engine struct {
	*notify.CallbackTable

	mu           sync.Mutex
	incompatible bool
	appName      string
	policy       notify.ShortcutPolicy
	initCalls    int
	posted       []Posted

	InitErr error
	ShowErr error
	HideErr error
}

// New returns a compatible engine with no recorded calls.
func New() *Engine {
	return &Engine{CallbackTable: notify.NewCallbackTable()}
}

// SetCompatible toggles the result of Compatible.
func (e *Engine) SetCompatible(ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.incompatible = !ok
}

func (e *Engine) Compatible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.incompatible
}

func (e *Engine) Initialize(appName string, policy notify.ShortcutPolicy) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initCalls++
	if e.InitErr != nil {
		return e.InitErr
	}
	e.appName = appName
	e.policy = policy
	return nil
}

func (e *Engine) Show(_ context.Context, cfg notify.Config, cb notify.Callback) (notify.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ShowErr != nil {
		return 0, e.ShowErr
	}
	h := e.Register(cb)
	e.posted = append(e.posted, Posted{Handle: h, Config: cfg})
	return h, nil
}

func (e *Engine) Hide(_ context.Context, h notify.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.HideErr != nil {
		return e.HideErr
	}
	for i := range e.posted {
		if e.posted[i].Handle == h {
			e.posted[i].Hidden = true
		}
	}
	e.Release(h)
	return nil
}

// AppName returns the name passed to Initialize.
func (e *Engine) AppName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.appName
}

// Policy returns the shortcut policy passed to Initialize.
func (e *Engine) Policy() notify.ShortcutPolicy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.policy
}

// InitCalls counts Initialize calls.
func (e *Engine) InitCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initCalls
}

// Posted returns a copy of every notification shown so far.
func (e *Engine) Posted() []Posted {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Posted, len(e.posted))
	copy(out, e.posted)
	return out
}

// Hidden reports whether h was hidden.
func (e *Engine) Hidden(h notify.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.posted {
		if p.Handle == h {
			return p.Hidden
		}
	}
	return false
}

// Fire delivers a native event to the callback bound to its handle.
func (e *Engine) Fire(ev notify.NativeEvent) bool {
	return e.Deliver(ev)
}

// Recorder is a notify.Sink that keeps every emitted event.
type Recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *Recorder) Emit(ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent event.
func (r *Recorder) Last() (notify.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return notify.Event{}, false
	}
	return r.events[len(r.events)-1], true
}
