package uconf

import "errors"

// 包级哨兵错误，调用方可用 errors.Is 判断
var (
	// ErrEmptyPath 配置文件路径为空
	ErrEmptyPath = errors.New("uconf: config path cannot be empty")

	// ErrUnsupportedFormat 不支持的配置格式
	ErrUnsupportedFormat = errors.New("uconf: unsupported config format")

	// ErrLoadFailed 配置文件读取失败
	ErrLoadFailed = errors.New("uconf: failed to load config")

	// ErrParseFailed 配置内容解析失败
	ErrParseFailed = errors.New("uconf: failed to parse config")

	// ErrUnmarshalFailed 配置反序列化失败
	ErrUnmarshalFailed = errors.New("uconf: failed to unmarshal config")

	// ErrInvalidConfig 配置值非法
	ErrInvalidConfig = errors.New("uconf: invalid config")

	// ErrWatchFromBytes 从字节数据加载的配置不支持监视
	ErrWatchFromBytes = errors.New("uconf: cannot watch config created from bytes")
)
