package notify

import "errors"

var (
	// ErrInvalidArgument 参数缺失、类型错误或枚举值无法识别
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedPlatform 原生引擎不兼容当前系统
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrNotInitialized 未调用 Setup
	ErrNotInitialized = errors.New("notifier not initialized")
	// ErrNotSupported 引擎不支持该操作（例如撤回已显示的通知）
	ErrNotSupported = errors.New("operation not supported by engine")
)
