// Package plugin 把宿主的 setup/notify/close 调用转交给通知会话管理器，
// 并把生命周期事件作为反向调用发回宿主。
package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"localnotifier/internal/channel"
	"localnotifier/internal/notify"
)

// ChannelName 宿主侧使用的通道名
const ChannelName = "local_notifier"

// 宿主调用的方法
const (
	MethodSetup  = "setup"
	MethodNotify = "notify"
	MethodClose  = "close"
)

// 发往宿主的事件
const (
	EventShow        = "onLocalNotificationShow"
	EventClick       = "onLocalNotificationClick"
	EventClickAction = "onLocalNotificationClickAction"
	EventInput       = "onLocalNotificationInput"
	EventClose       = "onLocalNotificationClose"
	EventFail        = "onLocalNotificationFail"
)

// 错误码
const (
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeUnsupportedPlatform = "UNSUPPORTED_PLATFORM"
	CodeNotInitialized      = "NOT_INITIALIZED"
	CodeNativeError         = "NATIVE_ERROR"
)

// Plugin 方法调用处理器
type Plugin struct {
	manager *notify.Manager
	log     zerolog.Logger
}

// Register 创建会话管理器并挂到通道上，事件经由通道发回宿主
func Register(ch *channel.Channel, engine notify.Engine, logger zerolog.Logger, opts ...notify.Option) *Plugin {
	sink := EventSink(ch, logger)
	opts = append([]notify.Option{notify.WithLogger(logger)}, opts...)

	p := &Plugin{
		manager: notify.NewManager(engine, sink, opts...),
		log:     logger.With().Str("component", "plugin").Logger(),
	}
	ch.SetMethodCallHandler(p)
	return p
}

// Manager 返回会话管理器，供托盘、热键等使用
func (p *Plugin) Manager() *notify.Manager {
	return p.manager
}

// HandleMethodCall 实现 channel.Handler
func (p *Plugin) HandleMethodCall(ctx context.Context, call channel.MethodCall, result channel.Result) {
	switch call.Method {
	case MethodSetup:
		p.setup(ctx, call, result)
	case MethodNotify:
		p.notify(ctx, call, result)
	case MethodClose:
		p.close(ctx, call, result)
	default:
		result.NotImplemented()
	}
}

func (p *Plugin) setup(ctx context.Context, call channel.MethodCall, result channel.Result) {
	var args setupArgs
	if err := call.DecodeArguments(&args); err != nil {
		p.fail(result, call.Method, fmt.Errorf("%w: %w", notify.ErrInvalidArgument, err))
		return
	}
	appName, policy, err := args.parse()
	if err != nil {
		p.fail(result, call.Method, err)
		return
	}

	if err := p.manager.Setup(ctx, appName, policy); err != nil {
		p.fail(result, call.Method, err)
		return
	}
	result.Success(true)
}

func (p *Plugin) notify(ctx context.Context, call channel.MethodCall, result channel.Result) {
	var args notifyArgs
	if err := call.DecodeArguments(&args); err != nil {
		p.fail(result, call.Method, fmt.Errorf("%w: %w", notify.ErrInvalidArgument, err))
		return
	}
	cfg, err := args.config()
	if err != nil {
		p.fail(result, call.Method, err)
		return
	}

	if err := p.manager.Show(ctx, args.Identifier, cfg); err != nil {
		p.fail(result, call.Method, err)
		return
	}
	result.Success(true)
}

func (p *Plugin) close(ctx context.Context, call channel.MethodCall, result channel.Result) {
	var args closeArgs
	if err := call.DecodeArguments(&args); err != nil {
		p.fail(result, call.Method, fmt.Errorf("%w: %w", notify.ErrInvalidArgument, err))
		return
	}
	id, err := args.parse()
	if err != nil {
		p.fail(result, call.Method, err)
		return
	}

	if err := p.manager.Close(ctx, id); err != nil {
		p.fail(result, call.Method, err)
		return
	}
	result.Success(true)
}

func (p *Plugin) fail(result channel.Result, method string, err error) {
	code, details := classify(err)
	p.log.Warn().Err(err).Str("method", method).Str("code", code).Msg("method call failed")
	result.Error(code, err.Error(), details)
}

func classify(err error) (string, any) {
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field] = fe.Err.Error()
		}
		return CodeInvalidArgument, details
	}

	switch {
	case errors.Is(err, notify.ErrInvalidArgument):
		return CodeInvalidArgument, nil
	case errors.Is(err, notify.ErrUnsupportedPlatform):
		return CodeUnsupportedPlatform, nil
	case errors.Is(err, notify.ErrNotInitialized):
		return CodeNotInitialized, nil
	default:
		return CodeNativeError, nil
	}
}
