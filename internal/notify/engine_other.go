//go:build !windows

package notify

import (
	"context"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

// NativeEngine 非 Windows 平台使用 beeep，只支持显示与失败回调
type NativeEngine struct {
	*CallbackTable

	opts NativeOptions
	log  zerolog.Logger

	mu      sync.Mutex
	appName string
}

// NewNativeEngine 创建 beeep 通知引擎
func NewNativeEngine(opts NativeOptions) *NativeEngine {
	return &NativeEngine{
		CallbackTable: NewCallbackTable(),
		opts:          opts,
		log:           opts.Logger.With().Str("component", "beeep").Logger(),
	}
}

// Compatible beeep 自行处理平台差异
func (e *NativeEngine) Compatible() bool {
	return true
}

func (e *NativeEngine) Initialize(appName string, policy ShortcutPolicy) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appName = appName
	if policy != ShortcutIgnore {
		e.log.Debug().Stringer("shortcut_policy", policy).Msg("shortcut policy has no effect on this platform")
	}
	return nil
}

func (e *NativeEngine) Show(ctx context.Context, cfg Config, cb Callback) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	h := e.Register(cb)
	icon := ""
	if cfg.Type.HasImage() {
		icon = cfg.ImagePath
	}
	title, message := cfg.Title, cfg.Message()
	audible := cfg.Sound != SoundUnset && cfg.SoundOption != SoundOptionSilent

	if len(cfg.Actions) > 0 || cfg.Input != nil {
		e.log.Debug().Int64("handle", int64(h)).Msg("actions and input are not rendered on this platform")
	}

	go func() {
		var err error
		if audible {
			err = beeep.Alert(title, message, icon)
		} else {
			err = beeep.Notify(title, message, icon)
		}
		if err != nil {
			e.log.Error().Err(err).Int64("handle", int64(h)).Msg("post notification")
			e.Deliver(NativeEvent{Handle: h, Kind: NativeFailed})
		}
	}()
	return h, nil
}

// Hide beeep 不支持撤回
func (e *NativeEngine) Hide(_ context.Context, h Handle) error {
	e.Release(h)
	return ErrNotSupported
}
