package ulog

import (
	"io"
	"time"

	"github.com/Belfagor2005/UniLogger/pkg/observability/urotate"
)

// config 日志器配置
type config struct {
	// ClearOnStart 构造时清空已有日志文件，默认追加
	ClearOnStart bool

	// MaxSizeMB 轮转阈值（MB），默认 urotate.DefaultMaxSizeMB
	MaxSizeMB int

	// MaxBackups 编号备份代数，默认 urotate.DefaultMaxBackups
	MaxBackups int

	// Level 初始级别，默认 DefaultLevel
	Level Level

	// Console 是否把日志行回显到控制台
	Console bool

	// ConsoleOutput 控制台回显目标，默认 os.Stdout
	ConsoleOutput io.Writer

	// Notifier ShowMessage 的投递器，nil 时 ShowMessage 记录 ErrNoNotifier
	Notifier Notifier

	// OnError 运行期故障回调，默认写 stderr
	OnError func(error)

	// Rotator 自定义轮转器。设置后 ClearOnStart/MaxSizeMB/MaxBackups 失效，
	// 由调用方对轮转器自行配置。
	Rotator urotate.Rotator

	// Clock 时间源，默认 time.Now。测试用。
	Clock func() time.Time
}

// Option 日志器配置选项函数
type Option func(*config)

// WithClearOnStart 设置构造时是否清空已有日志文件
func WithClearOnStart(clear bool) Option {
	return func(c *config) {
		c.ClearOnStart = clear
	}
}

// WithMaxSizeMB 设置轮转阈值（MB）
func WithMaxSizeMB(mb int) Option {
	return func(c *config) {
		c.MaxSizeMB = mb
	}
}

// WithMaxBackups 设置编号备份代数
func WithMaxBackups(n int) Option {
	return func(c *config) {
		c.MaxBackups = n
	}
}

// WithLevel 设置初始级别
func WithLevel(level Level) Option {
	return func(c *config) {
		c.Level = level
	}
}

// WithConsole 设置是否把日志行回显到控制台。
// 回显目标是终端时按级别着色。
func WithConsole(enable bool) Option {
	return func(c *config) {
		c.Console = enable
	}
}

// WithConsoleOutput 设置控制台回显目标并启用回显
func WithConsoleOutput(w io.Writer) Option {
	return func(c *config) {
		c.Console = true
		c.ConsoleOutput = w
	}
}

// WithNotifier 设置 ShowMessage 的通知投递器
func WithNotifier(n Notifier) Option {
	return func(c *config) {
		c.Notifier = n
	}
}

// WithOnError 设置运行期故障回调。
// 回调内的 panic 被隔离，不会影响宿主。
func WithOnError(fn func(error)) Option {
	return func(c *config) {
		c.OnError = fn
	}
}

// WithRotator 使用自定义轮转器替换默认的编号备份轮转器
func WithRotator(r urotate.Rotator) Option {
	return func(c *config) {
		c.Rotator = r
	}
}

// WithClock 设置时间源
func WithClock(fn func() time.Time) Option {
	return func(c *config) {
		c.Clock = fn
	}
}
