package urotate

import (
	"fmt"
	"os"
	"sync"

	"github.com/Belfagor2005/UniLogger/pkg/util/ufile"
)

// SizeFile 默认配置值
const (
	// DefaultMaxSizeMB 默认单个日志文件最大大小（MB）
	DefaultMaxSizeMB = 5

	// DefaultMaxBackups 默认保留的备份代数
	DefaultMaxBackups = 1

	// maxSizeMB 单个日志文件大小上限（10 GB）
	maxSizeMB = 10240

	// maxBackups 备份代数上限
	maxBackups = 64

	// logFilePerm 日志文件权限。日志需要被同机的查看工具读取，
	// 使用 0644 而非 lumberjack 的 0600。
	logFilePerm = 0o644
)

// sizeFileConfig SizeFile 轮转器配置
type sizeFileConfig struct {
	// MaxSizeMB 单个日志文件最大大小（MB）
	// 阈值换算为二进制兆字节：MaxSizeMB << 20 字节
	// 默认值 DefaultMaxSizeMB，必须 > 0
	MaxSizeMB int

	// MaxBackups 保留的编号备份代数（.1 最新，.N 最旧）
	// 轮转时备份链整体后移一位，最旧一代被覆盖
	// 默认值 DefaultMaxBackups，必须 >= 1
	MaxBackups int

	// Truncate 构造时是否清空活动文件（对应 clear_on_start 语义）
	// 只在构造时生效一次，不影响后续轮转
	Truncate bool
}

// SizeOption SizeFile 配置选项函数
type SizeOption func(*sizeFileConfig)

// WithMaxSizeMB 设置单个日志文件最大大小（MB）
func WithMaxSizeMB(mb int) SizeOption {
	return func(c *sizeFileConfig) {
		c.MaxSizeMB = mb
	}
}

// WithMaxBackups 设置保留的编号备份代数
func WithMaxBackups(n int) SizeOption {
	return func(c *sizeFileConfig) {
		c.MaxBackups = n
	}
}

// WithTruncate 设置构造时是否清空活动文件
func WithTruncate(truncate bool) SizeOption {
	return func(c *sizeFileConfig) {
		c.Truncate = truncate
	}
}

// sizeFile 写前大小检查的编号备份轮转器
//
// 轮转触发点在写入之前：当前文件大小达到阈值时先轮转再写入本条记录，
// 因此活动文件可能超过阈值至多一条记录的长度，直到下一次写入触发轮转。
type sizeFile struct {
	mu        sync.Mutex
	path      string
	threshold int64
	backups   int
	file      *os.File
	closed    bool
}

// NewSizeFile 创建写前检查的编号备份轮转器
//
// 参数:
//   - filename: 日志文件路径（必需）
//   - opts: 可选配置项
//
// 副作用:
//   - 对文件路径进行规范化和安全检查
//   - 自动创建不存在的父目录（权限 0750）
//   - 以追加模式打开/创建活动文件；WithTruncate(true) 时先清空
func NewSizeFile(filename string, opts ...SizeOption) (Rotator, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	cfg := sizeFileConfig{
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.MaxSizeMB <= 0 || cfg.MaxSizeMB > maxSizeMB {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, cfg.MaxSizeMB, maxSizeMB)
	}
	if cfg.MaxBackups < 1 || cfg.MaxBackups > maxBackups {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxBackups, cfg.MaxBackups, maxBackups)
	}

	safePath, err := ufile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := ufile.EnsureDir(safePath); err != nil {
		return nil, err
	}

	s := &sizeFile{
		path:      safePath,
		threshold: int64(cfg.MaxSizeMB) << 20,
		backups:   cfg.MaxBackups,
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if cfg.Truncate {
		flags |= os.O_TRUNC
	}
	//#nosec G304 -- 日志文件路径由调用方配置，已经过 SanitizePath 检查
	f, err := os.OpenFile(safePath, flags, logFilePerm)
	if err != nil {
		return nil, err
	}
	s.file = f

	return s, nil
}

// Write 实现 io.Writer 接口
//
// 写前检查：当前文件大小达到阈值时先轮转，再写入本条记录。
// os.File 的写入不经过用户态缓冲，每条记录在返回时已提交给内核，
// 进程异常终止不会丢失已写内容。
func (s *sizeFile) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if err := s.ensureOpenLocked(); err != nil {
		return 0, err
	}

	// Stat 失败时跳过轮转检查继续写入：日志写入优先于轮转精度
	if info, err := s.file.Stat(); err == nil && info.Size() >= s.threshold {
		if err := s.rotateLocked(); err != nil {
			return 0, err
		}
	}

	return s.file.Write(p)
}

// Rotate 手动触发轮转
func (s *sizeFile) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.rotateLocked()
}

// Close 实现 io.Closer 接口
//
// 关闭后调用 Write 或 Rotate 将返回 [ErrClosed]，重复调用 Close 也返回 [ErrClosed]。
func (s *sizeFile) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.closed = true

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// ensureOpenLocked 确保活动文件已打开。调用方必须持有 s.mu。
func (s *sizeFile) ensureOpenLocked() error {
	if s.file != nil {
		return nil
	}
	//#nosec G304 -- 路径在构造时已经过 SanitizePath 检查
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return err
	}
	s.file = f
	return nil
}

// rotateLocked 执行轮转。调用方必须持有 s.mu。
//
// 步骤：关闭当前句柄；备份链自最旧一代起整体后移
// （name.N-1 → name.N，…，name.1 → name.2，最旧一代被覆盖）；
// 活动文件重命名为 name.1；重新打开空的活动文件。
func (s *sizeFile) rotateLocked() error {
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			s.file = nil
			return err
		}
		s.file = nil
	}

	for i := s.backups - 1; i >= 1; i-- {
		old := fmt.Sprintf("%s.%d", s.path, i)
		if _, err := os.Stat(old); err == nil {
			// rename 覆盖已存在的下一代，形成有界保留
			if err := os.Rename(old, fmt.Sprintf("%s.%d", s.path, i+1)); err != nil {
				return err
			}
		}
	}

	if err := os.Rename(s.path, s.path+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}

	return s.ensureOpenLocked()
}
