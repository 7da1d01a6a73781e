package uconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Belfagor2005/UniLogger/pkg/observability/ulog"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 配置文件格式
type Format string

// 支持的配置格式
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// koanf 键路径分隔符与结构体标签
const (
	keyDelim  = "."
	koanfTag  = "koanf"
	loggerKey = "" // 日志配置位于文档根
)

// LoggerConfig 插件日志器配置
type LoggerConfig struct {
	// LogPath 日志目录，必填
	LogPath string `koanf:"log_path"`

	// PluginName 插件名，必填，作为日志文件名主干
	PluginName string `koanf:"plugin_name"`

	// ClearOnStart 启动时清空已有日志
	ClearOnStart bool `koanf:"clear_on_start"`

	// MaxSizeMB 轮转阈值（MB）
	MaxSizeMB int `koanf:"max_size_mb"`

	// MaxBackups 编号备份代数
	MaxBackups int `koanf:"max_backups"`

	// Level 日志级别名称，见 ulog.ParseLevel
	Level string `koanf:"level"`

	// Console 是否回显到控制台
	Console bool `koanf:"console"`
}

// Default 返回默认日志配置
func Default() LoggerConfig {
	return LoggerConfig{
		MaxSizeMB:  5,
		MaxBackups: 1,
		Level:      "info",
	}
}

// Validate 检查配置值
func (lc LoggerConfig) Validate() error {
	if lc.LogPath == "" {
		return fmt.Errorf("%w: log_path is required", ErrInvalidConfig)
	}
	if lc.PluginName == "" {
		return fmt.Errorf("%w: plugin_name is required", ErrInvalidConfig)
	}
	if lc.MaxSizeMB <= 0 {
		return fmt.Errorf("%w: max_size_mb must be positive, got %d", ErrInvalidConfig, lc.MaxSizeMB)
	}
	if lc.MaxBackups < 1 {
		return fmt.Errorf("%w: max_backups must be at least 1, got %d", ErrInvalidConfig, lc.MaxBackups)
	}
	if _, err := ulog.ParseLevel(lc.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Build 按配置创建日志器，经由进程级注册表去重
func (lc LoggerConfig) Build(extra ...ulog.Option) (ulog.LoggerWithLevel, error) {
	if err := lc.Validate(); err != nil {
		return nil, err
	}

	level, err := ulog.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	opts := []ulog.Option{
		ulog.WithClearOnStart(lc.ClearOnStart),
		ulog.WithMaxSizeMB(lc.MaxSizeMB),
		ulog.WithMaxBackups(lc.MaxBackups),
		ulog.WithLevel(level),
		ulog.WithConsole(lc.Console),
	}
	opts = append(opts, extra...)

	return ulog.GetLogger(lc.LogPath, lc.PluginName, opts...)
}

// Config 已加载的配置文件
type Config struct {
	mu      sync.RWMutex
	k       *koanf.Koanf
	path    string
	format  Format
	isBytes bool
}

// Load 从文件加载配置，格式按扩展名识别（.yaml/.yml/.json）
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //#nosec G304 -- 配置路径由调用方指定
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	k := koanf.New(keyDelim)
	if err := loadData(k, data, format); err != nil {
		return nil, err
	}

	return &Config{k: k, path: path, format: format}, nil
}

// LoadBytes 从字节数据加载配置，需显式指定格式。
// 空数据产生空配置，Logger() 返回默认值（校验会因缺少必填项失败）。
func LoadBytes(data []byte, format Format) (*Config, error) {
	if format != FormatYAML && format != FormatJSON {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	k := koanf.New(keyDelim)
	if len(data) > 0 {
		if err := loadData(k, data, format); err != nil {
			return nil, err
		}
	}

	return &Config{k: k, format: format, isBytes: true}, nil
}

// Logger 解出日志配置并校验。未出现的字段保持默认值。
func (c *Config) Logger() (LoggerConfig, error) {
	c.mu.RLock()
	k := c.k
	c.mu.RUnlock()

	lc := Default()
	if err := k.UnmarshalWithConf(loggerKey, &lc, koanf.UnmarshalConf{Tag: koanfTag}); err != nil {
		return LoggerConfig{}, fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	if err := lc.Validate(); err != nil {
		return LoggerConfig{}, err
	}
	return lc, nil
}

// Reload 重新读取配置文件。解析失败时保留原配置。
func (c *Config) Reload() error {
	if c.isBytes {
		return ErrWatchFromBytes
	}

	data, err := os.ReadFile(c.path) //#nosec G304 -- 路径在 Load 时已确定
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	newK := koanf.New(keyDelim)
	if err := loadData(newK, data, c.format); err != nil {
		return err
	}

	c.mu.Lock()
	c.k = newK
	c.mu.Unlock()
	return nil
}

// Path 返回配置文件路径，从字节数据加载时为空
func (c *Config) Path() string { return c.path }

// Format 返回配置格式
func (c *Config) Format() Format { return c.format }

// detectFormat 按扩展名识别配置格式
func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// loadData 把原始字节按格式装入 koanf 实例
func loadData(k *koanf.Koanf, data []byte, format Format) error {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}
