package ulog

import (
	"fmt"
	"strings"
)

// Level 日志级别
//
// 数值间隔与 log/slog 对齐（每级相差 4），便于与标准库级别互换。
type Level int32

// 预定义日志级别
const (
	LevelDebug    Level = -4
	LevelInfo     Level = 0
	LevelWarning  Level = 4
	LevelError    Level = 8
	LevelCritical Level = 12
)

// DefaultLevel 默认级别。新建日志器不过滤任何级别。
const DefaultLevel = LevelDebug

// String 返回级别的大写名称，未知数值返回 LEVEL(<n>) 形式。
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int32(l))
	}
}

// ParseLevel 解析级别名称，大小写不敏感。
// 兼容 "warn" 作为 "warning" 的别名。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	default:
		return LevelInfo, fmt.Errorf("ulog: unknown level %q", s)
	}
}

// MarshalText 实现 encoding.TextMarshaler 接口
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
