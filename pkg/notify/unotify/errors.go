package unotify

import "errors"

// 包级哨兵错误，调用方可用 errors.Is 判断
var (
	// ErrNilSink 注册的接收端为 nil
	ErrNilSink = errors.New("unotify: sink cannot be nil")

	// ErrEmptySession 会话标识为空
	ErrEmptySession = errors.New("unotify: session cannot be empty")

	// ErrSessionExists 会话标识已被占用
	ErrSessionExists = errors.New("unotify: session already registered")

	// ErrUnknownSession 会话标识未注册或已注销
	ErrUnknownSession = errors.New("unotify: unknown session")

	// ErrInvalidAttempts 重试次数无效
	ErrInvalidAttempts = errors.New("unotify: invalid retry attempts")

	// ErrInvalidDedupSize 重复抑制缓存容量无效
	ErrInvalidDedupSize = errors.New("unotify: invalid dedup cache size")
)
