package ulog

import "errors"

// 包级哨兵错误，调用方可用 errors.Is 判断
var (
	// ErrEmptyLogPath 日志目录为空
	ErrEmptyLogPath = errors.New("ulog: log path cannot be empty")

	// ErrEmptyPluginName 插件名为空
	ErrEmptyPluginName = errors.New("ulog: plugin name cannot be empty")

	// ErrInvalidPluginName 插件名含路径分隔符或其他非法字符
	ErrInvalidPluginName = errors.New("ulog: invalid plugin name")

	// ErrInvalidMaxSize 轮转阈值无效
	ErrInvalidMaxSize = errors.New("ulog: invalid max size")

	// ErrClosed 日志器已关闭
	ErrClosed = errors.New("ulog: logger is closed")

	// ErrNoNotifier 未配置通知投递器时调用 ShowMessage
	ErrNoNotifier = errors.New("ulog: no notifier configured")

	// ErrRegistryClosed 注册表已关闭
	ErrRegistryClosed = errors.New("ulog: registry is closed")
)
