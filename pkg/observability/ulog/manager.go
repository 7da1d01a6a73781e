package ulog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Belfagor2005/UniLogger/pkg/observability/urotate"
	"github.com/Belfagor2005/UniLogger/pkg/util/ufile"

	"go.opentelemetry.io/otel/trace"
)

// 日志行时间戳格式，精确到秒
const timestampLayout = "2006-01-02 15:04:05"

// 调用栈缓冲区尺寸
const (
	initialStackSize = 4096
	maxStackSize     = 64 * 1024
)

// logFileSuffix 日志文件名后缀
const logFileSuffix = ".log"

// pluginLogger 插件日志器实现
type pluginLogger struct {
	path       string
	pluginName string
	rotator    urotate.Rotator
	level      atomic.Int32
	console    io.Writer
	colorize   bool
	notifier   Notifier
	onError    func(error)
	now        func() time.Time

	closed         atomic.Bool
	errorCount     atomic.Uint64
	inErrorHandler atomic.Bool
}

// 编译期接口检查
var _ LoggerWithLevel = (*pluginLogger)(nil)

// New 创建插件日志器
//
// 日志文件为 <logPath>/<pluginName>.log，logPath 不存在时递归创建（权限 0750）。
// 目录创建失败是唯一向调用方传播的故障；构造成功后的运行期故障
// 一律交给错误回调，宿主进程不受影响。
//
// pluginName 仅作为文件名主干使用，不允许包含路径分隔符。
func New(logPath, pluginName string, opts ...Option) (LoggerWithLevel, error) {
	if logPath == "" {
		return nil, ErrEmptyLogPath
	}
	if pluginName == "" {
		return nil, ErrEmptyPluginName
	}
	if strings.ContainsAny(pluginName, `/\`) || pluginName != filepath.Base(pluginName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPluginName, pluginName)
	}

	cfg := config{
		MaxSizeMB:  urotate.DefaultMaxSizeMB,
		MaxBackups: urotate.DefaultMaxBackups,
		Level:      DefaultLevel,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.MaxSizeMB <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxSize, cfg.MaxSizeMB)
	}

	filename, err := ufile.SanitizePath(filepath.Join(logPath, pluginName+logFileSuffix))
	if err != nil {
		return nil, err
	}

	rotator := cfg.Rotator
	if rotator == nil {
		rotator, err = urotate.NewSizeFile(filename,
			urotate.WithMaxSizeMB(cfg.MaxSizeMB),
			urotate.WithMaxBackups(cfg.MaxBackups),
			urotate.WithTruncate(cfg.ClearOnStart),
		)
		if err != nil {
			return nil, err
		}
	}

	l := &pluginLogger{
		path:       filename,
		pluginName: pluginName,
		rotator:    rotator,
		notifier:   cfg.Notifier,
		onError:    cfg.OnError,
		now:        cfg.Clock,
	}
	l.level.Store(int32(cfg.Level))
	if l.now == nil {
		l.now = time.Now
	}
	if cfg.Console {
		l.console = cfg.ConsoleOutput
		if l.console == nil {
			l.console = os.Stdout
		}
		l.colorize = shouldColorize(l.console)
	}

	return l, nil
}

// Debug 记录 DEBUG 级别日志
func (l *pluginLogger) Debug(ctx context.Context, format string, args ...any) {
	l.log(ctx, LevelDebug, format, args)
}

// Info 记录 INFO 级别日志
func (l *pluginLogger) Info(ctx context.Context, format string, args ...any) {
	l.log(ctx, LevelInfo, format, args)
}

// Warning 记录 WARNING 级别日志
func (l *pluginLogger) Warning(ctx context.Context, format string, args ...any) {
	l.log(ctx, LevelWarning, format, args)
}

// Error 记录 ERROR 级别日志
func (l *pluginLogger) Error(ctx context.Context, format string, args ...any) {
	l.log(ctx, LevelError, format, args)
}

// Critical 记录 CRITICAL 级别日志
func (l *pluginLogger) Critical(ctx context.Context, format string, args ...any) {
	l.log(ctx, LevelCritical, format, args)
}

// Exception 记录 ERROR 级别日志并附加错误详情与调用栈
func (l *pluginLogger) Exception(ctx context.Context, err error, format string, args ...any) {
	if l.closed.Load() || !l.Enabled(LevelError) {
		return
	}

	var b strings.Builder
	b.WriteString(l.formatLine(ctx, LevelError, format, args))
	if err != nil {
		fmt.Fprintf(&b, "    error: %T: %v\n", err, err)
	} else {
		b.WriteString("    error: <nil>\n")
	}
	for _, frame := range strings.Split(strings.TrimRight(captureStack(), "\n"), "\n") {
		b.WriteString("    ")
		b.WriteString(frame)
		b.WriteByte('\n')
	}

	// 日志行与附加行一次性写入，轮转不会把同一条记录拆到两个文件
	l.emit(LevelError, b.String())
}

// ShowMessage 通过通知投递器向宿主会话发送消息
//
// 任何投递故障（包括未配置投递器）只记录 ERROR 日志并计入故障计数，
// 永不向调用方传播。
func (l *pluginLogger) ShowMessage(ctx context.Context, session, text string) {
	if l.closed.Load() {
		return
	}

	err := l.deliver(ctx, session, text)
	if err == nil {
		return
	}
	l.handleError(err)
	l.log(ctx, LevelError, "show_message delivery failed: %v", []any{err})
}

// deliver 执行投递，并把投递器内部的 panic 转换为错误
func (l *pluginLogger) deliver(ctx context.Context, session, text string) (err error) {
	if l.notifier == nil {
		return ErrNoNotifier
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ulog: notifier panicked: %v", r)
		}
	}()
	return l.notifier.Notify(ctx, session, text)
}

// Rotate 手动触发日志轮转
func (l *pluginLogger) Rotate() error {
	if l.closed.Load() {
		return ErrClosed
	}
	return l.rotator.Rotate()
}

// Close 关闭日志器并释放文件句柄
func (l *pluginLogger) Close() error {
	if l.closed.Swap(true) {
		return ErrClosed
	}
	return l.rotator.Close()
}

// Path 返回活动日志文件的完整路径
func (l *pluginLogger) Path() string { return l.path }

// PluginName 返回创建时指定的插件名
func (l *pluginLogger) PluginName() string { return l.pluginName }

// Level 返回当前级别
func (l *pluginLogger) Level() Level { return Level(l.level.Load()) }

// SetLevel 动态调整级别
func (l *pluginLogger) SetLevel(level Level) { l.level.Store(int32(level)) }

// Enabled 判断指定级别是否会被记录
func (l *pluginLogger) Enabled(level Level) bool { return level >= l.Level() }

// ErrorCount 返回累计的运行期故障次数
func (l *pluginLogger) ErrorCount() uint64 { return l.errorCount.Load() }

// log 统一的记录入口
func (l *pluginLogger) log(ctx context.Context, lvl Level, format string, args []any) {
	if l.closed.Load() || !l.Enabled(lvl) {
		return
	}
	l.emit(lvl, l.formatLine(ctx, lvl, format, args))
}

// emit 把完整的日志行写入轮转器并按需回显到控制台
func (l *pluginLogger) emit(lvl Level, line string) {
	if _, err := l.rotator.Write([]byte(line)); err != nil {
		l.handleError(err)
	}
	if l.console != nil {
		echoConsole(l.console, lvl, line, l.colorize)
	}
}

// formatLine 渲染 "<时间戳> [<级别>] <消息>\n"
//
// ctx 中带有效 span 时在消息后追加 trace_id，便于跨插件关联。
func (l *pluginLogger) formatLine(ctx context.Context, lvl Level, format string, args []any) string {
	var b strings.Builder
	b.WriteString(l.now().Format(timestampLayout))
	b.WriteString(" [")
	b.WriteString(lvl.String())
	b.WriteString("] ")
	b.WriteString(formatMessage(format, args))
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		b.WriteString(" trace_id=")
		b.WriteString(sc.TraceID().String())
	}
	b.WriteByte('\n')
	return b.String()
}

// formatMessage 渲染消息体
//
// 不带参数时格式串按原文写入，避免把含 % 的普通文本误当格式串。
// 动词与参数不匹配时 fmt 在原位内联 %! 诊断标记，日志照常落盘。
func formatMessage(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// stackPool 复用调用栈缓冲区，避免每次 Exception 都分配
var stackPool = sync.Pool{
	New: func() any {
		buf := make([]byte, initialStackSize)
		return &buf
	},
}

// captureStack 捕获当前 goroutine 的调用栈
//
// 缓冲区不足时倍增重试，上限 maxStackSize，超长的栈被截断。
func captureStack() string {
	bp, _ := stackPool.Get().(*[]byte)
	buf := *bp
	defer func() {
		*bp = buf
		stackPool.Put(bp)
	}()

	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) || len(buf) >= maxStackSize {
			return string(buf[:n])
		}
		buf = make([]byte, len(buf)*2)
	}
}

// handleError 运行期故障处理
//
// 计数后交给回调。CAS 守卫阻断回调再次触发故障导致的递归，
// 回调缺省时写 stderr。
func (l *pluginLogger) handleError(err error) {
	if err == nil {
		return
	}
	l.errorCount.Add(1)

	if !l.inErrorHandler.CompareAndSwap(false, true) {
		return
	}
	defer l.inErrorHandler.Store(false)

	l.safeOnError(err)
}

// safeOnError 隔离回调内的 panic
func (l *pluginLogger) safeOnError(err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "ulog: error handler panicked: %v (original error: %v)\n", r, err)
		}
	}()

	if l.onError != nil {
		l.onError(err)
		return
	}
	fmt.Fprintf(os.Stderr, "ulog: %s: %v\n", l.pluginName, err)
}
