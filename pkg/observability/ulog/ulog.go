package ulog

import "context"

// Logger 插件日志器接口
//
// 所有方法在格式化失败或底层写入失败时都不会 panic，也不返回错误：
// 故障被计数并交给错误回调（见 [WithOnError]），宿主进程不受影响。
// 格式串遵循 fmt 包的动词约定；不带参数调用时格式串按原文写入，
// 不做任何动词替换。
type Logger interface {
	// Debug 记录 DEBUG 级别日志
	Debug(ctx context.Context, format string, args ...any)

	// Info 记录 INFO 级别日志
	Info(ctx context.Context, format string, args ...any)

	// Warning 记录 WARNING 级别日志
	Warning(ctx context.Context, format string, args ...any)

	// Error 记录 ERROR 级别日志
	Error(ctx context.Context, format string, args ...any)

	// Critical 记录 CRITICAL 级别日志
	Critical(ctx context.Context, format string, args ...any)

	// Exception 记录 ERROR 级别日志并附加错误详情与调用栈。
	// 错误类型、错误消息和栈的每一行以四个空格缩进追加在日志行之后。
	// err 为 nil 时仍然记录消息与调用栈。
	Exception(ctx context.Context, err error, format string, args ...any)

	// ShowMessage 通过已注册的通知投递器向宿主会话发送消息。
	// 投递失败只记录 ERROR 日志，永不向调用方传播。
	ShowMessage(ctx context.Context, session, text string)

	// Rotate 手动触发日志轮转
	Rotate() error

	// Close 关闭日志器并释放文件句柄。关闭后的记录调用被静默丢弃。
	Close() error

	// Path 返回活动日志文件的完整路径
	Path() string

	// PluginName 返回创建时指定的插件名
	PluginName() string
}

// Leveler 级别控制接口
type Leveler interface {
	// Level 返回当前级别
	Level() Level

	// SetLevel 动态调整级别，对后续记录立即生效
	SetLevel(Level)

	// Enabled 判断指定级别是否会被记录
	Enabled(Level) bool
}

// LoggerWithLevel 带级别控制的日志器
type LoggerWithLevel interface {
	Logger
	Leveler
}

// Notifier 宿主通知投递接口
//
// ShowMessage 经由该接口把消息递送给宿主会话。
// unotify 包提供带重试与熔断的实现。
type Notifier interface {
	Notify(ctx context.Context, session, text string) error
}
