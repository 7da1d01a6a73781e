package urotate

import (
	"fmt"
	"sync/atomic"

	"github.com/Belfagor2005/UniLogger/pkg/util/ufile"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Lumberjack 默认配置值
const (
	// DefaultLumberjackMaxSizeMB 默认单个日志文件最大大小（MB）
	DefaultLumberjackMaxSizeMB = 100

	// DefaultLumberjackMaxBackups 默认保留的备份文件数量
	DefaultLumberjackMaxBackups = 3

	// DefaultLumberjackMaxAgeDays 默认保留备份的天数
	DefaultLumberjackMaxAgeDays = 28

	// maxAgeDays 备份保留天数上限（约 10 年）
	maxAgeDays = 3650

	// lumberjackMaxBackups 备份文件数量上限
	lumberjackMaxBackups = 1024
)

// LumberjackConfig lumberjack 轮转器配置
//
// 零值字段使用默认值。基于文件大小的轮转策略，
// 备份文件名带时间戳，支持 gzip 压缩与按天数清理。
type LumberjackConfig struct {
	// MaxSizeMB 单个日志文件最大大小（MB），超过此大小时触发轮转
	MaxSizeMB int

	// MaxBackups 保留的备份文件数量，0 表示不按数量清理（但仍受 MaxAgeDays 约束）
	MaxBackups int

	// MaxAgeDays 保留备份的天数，0 表示不按天数清理（但仍受 MaxBackups 约束）
	MaxAgeDays int

	// Compress 是否用 gzip 压缩备份文件
	Compress bool

	// LocalTime 备份文件名是否使用本地时间（false 表示 UTC）
	LocalTime bool
}

// lumberjackRotator 基于 lumberjack 的 Rotator 实现
type lumberjackRotator struct {
	logger *lumberjack.Logger
	closed atomic.Bool
}

// NewLumberjack 创建基于 lumberjack 的日志轮转器
//
// 与 [NewSizeFile] 的区别见包文档。会对文件路径进行规范化和安全检查，
// 并自动创建不存在的父目录（权限 0750）。
func NewLumberjack(filename string, cfg LumberjackConfig) (Rotator, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = DefaultLumberjackMaxSizeMB
	}
	if cfg.MaxBackups == 0 && cfg.MaxAgeDays == 0 {
		cfg.MaxBackups = DefaultLumberjackMaxBackups
		cfg.MaxAgeDays = DefaultLumberjackMaxAgeDays
	}

	if err := validateLumberjackConfig(cfg); err != nil {
		return nil, err
	}

	safePath, err := ufile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := ufile.EnsureDir(safePath); err != nil {
		return nil, err
	}

	return &lumberjackRotator{
		logger: &lumberjack.Logger{
			Filename:   safePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		},
	}, nil
}

// validateLumberjackConfig 验证 lumberjack 配置
func validateLumberjackConfig(cfg LumberjackConfig) error {
	if cfg.MaxSizeMB < 0 || cfg.MaxSizeMB > maxSizeMB {
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, cfg.MaxSizeMB, maxSizeMB)
	}
	if cfg.MaxBackups < 0 || cfg.MaxBackups > lumberjackMaxBackups {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, cfg.MaxBackups, lumberjackMaxBackups)
	}
	if cfg.MaxAgeDays < 0 || cfg.MaxAgeDays > maxAgeDays {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, cfg.MaxAgeDays, maxAgeDays)
	}
	if cfg.MaxBackups == 0 && cfg.MaxAgeDays == 0 {
		return fmt.Errorf("%w: MaxBackups and MaxAgeDays cannot both be 0", ErrNoCleanupPolicy)
	}
	return nil
}

// Write 实现 io.Writer 接口
func (r *lumberjackRotator) Write(p []byte) (n int, err error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}

	n, err = r.logger.Write(p)
	if err != nil {
		// Write 与 Close 存在 TOCTOU 窗口——通过前置检查后 Close 可能已完成。
		// 后置检查确保调用者始终得到 ErrClosed 而非底层 I/O 错误。
		if r.closed.Load() {
			return n, ErrClosed
		}
		return n, err
	}
	return n, nil
}

// Rotate 手动触发轮转
func (r *lumberjackRotator) Rotate() error {
	if r.closed.Load() {
		return ErrClosed
	}

	if err := r.logger.Rotate(); err != nil {
		if r.closed.Load() {
			return ErrClosed
		}
		return err
	}
	return nil
}

// Close 实现 io.Closer 接口
//
// 使用 CAS 原语标记关闭状态，首次 Close 失败后不重置标记：
// 重试调用得到 ErrClosed 而非重新尝试关闭，确保关闭后不会有新的写入到达底层。
func (r *lumberjackRotator) Close() error {
	if r.closed.Swap(true) {
		return ErrClosed
	}
	return r.logger.Close()
}
