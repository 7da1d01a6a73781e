package ulog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry 进程级日志器注册表
//
// 以 (日志目录, 插件名) 为键去重：同一组合在注册表生命周期内
// 共享同一个日志器实例，后续调用携带的选项被忽略。
// 注册表只在显式调用 [Registry.Close] 时清空，从不隐式回收。
type Registry struct {
	mu      sync.RWMutex
	loggers map[string]LoggerWithLevel
	group   singleflight.Group
	closed  bool
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		loggers: make(map[string]LoggerWithLevel),
	}
}

// registryKey 构造去重键。目录先做词法规范化，
// 分隔符用 NUL 避免目录名与插件名的拼接歧义。
func registryKey(logPath, pluginName string) string {
	return filepath.Clean(logPath) + "\x00" + pluginName
}

// Get 返回 (logPath, pluginName) 对应的日志器，不存在时创建。
//
// 并发的首次创建经由 singleflight 合并，同一键只构造一次。
// 已存在的实例直接返回，opts 仅在实际创建时生效。
func (r *Registry) Get(logPath, pluginName string, opts ...Option) (LoggerWithLevel, error) {
	key := registryKey(logPath, pluginName)

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, ErrRegistryClosed
	}
	if lg, ok := r.loggers[key]; ok {
		r.mu.RUnlock()
		return lg, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do(key, func() (any, error) {
		// 双重检查：等待期间可能已有其他 Do 完成注册
		r.mu.RLock()
		lg, ok := r.loggers[key]
		closed := r.closed
		r.mu.RUnlock()
		if closed {
			return nil, ErrRegistryClosed
		}
		if ok {
			return lg, nil
		}

		created, err := New(logPath, pluginName, opts...)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			_ = created.Close()
			return nil, ErrRegistryClosed
		}
		r.loggers[key] = created
		r.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	lg, ok := v.(LoggerWithLevel)
	if !ok {
		return nil, fmt.Errorf("ulog: unexpected registry entry type %T", v)
	}
	return lg, nil
}

// Remove 关闭并移除指定日志器。键不存在时为空操作。
func (r *Registry) Remove(logPath, pluginName string) error {
	key := registryKey(logPath, pluginName)

	r.mu.Lock()
	lg, ok := r.loggers[key]
	if ok {
		delete(r.loggers, key)
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return lg.Close()
}

// Len 返回当前注册的日志器数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.loggers)
}

// Close 关闭所有注册的日志器并清空注册表。
// 关闭后的 Get 返回 [ErrRegistryClosed]。重复调用返回 [ErrRegistryClosed]。
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRegistryClosed
	}
	r.closed = true
	loggers := r.loggers
	r.loggers = nil
	r.mu.Unlock()

	var errs []error
	for _, lg := range loggers {
		if err := lg.Close(); err != nil && !errors.Is(err, ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// defaultRegistry 进程级默认注册表，进程生命周期内从不隐式清空
var defaultRegistry = NewRegistry()

// GetLogger 从默认注册表获取日志器，语义同 [Registry.Get]。
//
// 这是包的主入口：同一 (目录, 插件名) 在整个进程中共享同一实例。
func GetLogger(logPath, pluginName string, opts ...Option) (LoggerWithLevel, error) {
	return defaultRegistry.Get(logPath, pluginName, opts...)
}

// DefaultRegistry 返回进程级默认注册表
func DefaultRegistry() *Registry {
	return defaultRegistry
}
