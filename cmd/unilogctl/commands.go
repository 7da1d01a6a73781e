package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Belfagor2005/UniLogger/pkg/config/uconf"
	"github.com/Belfagor2005/UniLogger/pkg/observability/ulog"
	"github.com/Belfagor2005/UniLogger/pkg/observability/urotate"

	"github.com/urfave/cli/v3"
)

// defaultTailLines tail 命令默认显示的行数
const defaultTailLines = 20

// usageError 表示参数错误，run() 将其映射为退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// isCLIUsageError 识别 urfave/cli 框架自身产生的参数错误
func isCLIUsageError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "flag provided but not defined") ||
		strings.Contains(msg, "No help topic for")
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createEmitCommand(),
		createTailCommand(),
		createRotateCommand(),
		createCheckCommand(),
	}
}

// createEmitCommand 创建 emit 子命令。
func createEmitCommand() *cli.Command {
	return &cli.Command{
		Name:      "emit",
		Aliases:   []string{"e"},
		Usage:     "写入一条日志",
		ArgsUsage: "<消息>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "日志级别 (debug/info/warning/error/critical)",
				Value:   "info",
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "写入前清空已有日志",
			},
			&cli.IntFlag{
				Name:  "max-size",
				Usage: "轮转阈值（MB）",
				Value: urotate.DefaultMaxSizeMB,
			},
			&cli.IntFlag{
				Name:  "backups",
				Usage: "编号备份代数",
				Value: urotate.DefaultMaxBackups,
			},
			&cli.BoolFlag{
				Name:  "console",
				Usage: "同时回显到控制台",
			},
			&cli.BoolFlag{
				Name:  "compress",
				Usage: "使用带 gzip 压缩的时间戳备份轮转器",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			message := strings.Join(cmd.Args().Slice(), " ")
			return cmdEmit(ctx, emitParams{
				dir:      cmd.String("dir"),
				plugin:   cmd.String("plugin"),
				level:    cmd.String("level"),
				clear:    cmd.Bool("clear"),
				maxSize:  int(cmd.Int("max-size")),
				backups:  int(cmd.Int("backups")),
				console:  cmd.Bool("console"),
				compress: cmd.Bool("compress"),
				message:  message,
			})
		},
	}
}

// createTailCommand 创建 tail 子命令。
func createTailCommand() *cli.Command {
	return &cli.Command{
		Name:  "tail",
		Usage: "查看日志尾部",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "lines",
				Aliases: []string{"n"},
				Usage:   "显示的行数",
				Value:   defaultTailLines,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdTail(cmd.String("dir"), cmd.String("plugin"),
				int(cmd.Int("lines")), os.Stdout)
		},
	}
}

// createRotateCommand 创建 rotate 子命令。
func createRotateCommand() *cli.Command {
	return &cli.Command{
		Name:    "rotate",
		Aliases: []string{"r"},
		Usage:   "手动触发轮转",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "backups",
				Usage: "编号备份代数",
				Value: urotate.DefaultMaxBackups,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdRotate(cmd.String("dir"), cmd.String("plugin"),
				int(cmd.Int("backups")))
		},
	}
}

// createCheckCommand 创建 check 子命令。
func createCheckCommand() *cli.Command {
	return &cli.Command{
		Name:    "check",
		Aliases: []string{"c"},
		Usage:   "校验配置文件并打印解析结果",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "配置文件路径 (.yaml/.yml/.json)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdCheck(cmd.String("config"), os.Stdout)
		},
	}
}

// emitParams emit 命令参数
type emitParams struct {
	dir      string
	plugin   string
	level    string
	clear    bool
	maxSize  int
	backups  int
	console  bool
	compress bool
	message  string
}

// cmdEmit 写入一条日志
func cmdEmit(ctx context.Context, p emitParams) error {
	if p.plugin == "" {
		return usageErrorf("缺少 --plugin 参数")
	}
	if p.message == "" {
		return usageErrorf("缺少消息参数")
	}
	level, err := ulog.ParseLevel(p.level)
	if err != nil {
		return usageErrorf("未知级别 %q", p.level)
	}

	opts := []ulog.Option{
		ulog.WithClearOnStart(p.clear),
		ulog.WithMaxSizeMB(p.maxSize),
		ulog.WithMaxBackups(p.backups),
		ulog.WithConsole(p.console),
	}
	if p.compress {
		rot, err := urotate.NewLumberjack(
			filepath.Join(p.dir, p.plugin+".log"),
			urotate.LumberjackConfig{
				MaxSizeMB:  p.maxSize,
				MaxBackups: p.backups,
				Compress:   true,
			})
		if err != nil {
			return err
		}
		opts = append(opts, ulog.WithRotator(rot))
	}

	logger, err := ulog.New(p.dir, p.plugin, opts...)
	if err != nil {
		return err
	}
	defer logger.Close()

	emitAt(ctx, logger, level, p.message)
	return nil
}

// emitAt 按级别分发到对应的记录方法
func emitAt(ctx context.Context, logger ulog.Logger, level ulog.Level, message string) {
	switch {
	case level >= ulog.LevelCritical:
		logger.Critical(ctx, "%s", message)
	case level >= ulog.LevelError:
		logger.Error(ctx, "%s", message)
	case level >= ulog.LevelWarning:
		logger.Warning(ctx, "%s", message)
	case level >= ulog.LevelInfo:
		logger.Info(ctx, "%s", message)
	default:
		logger.Debug(ctx, "%s", message)
	}
}

// cmdTail 打印日志文件的最后若干行
func cmdTail(dir, plugin string, lines int, out io.Writer) error {
	if plugin == "" {
		return usageErrorf("缺少 --plugin 参数")
	}
	if lines <= 0 {
		return usageErrorf("行数必须为正数，当前 %d", lines)
	}

	path := filepath.Join(dir, plugin+".log")
	data, err := os.ReadFile(path) //#nosec G304 -- 路径由命令行参数构成
	if err != nil {
		return fmt.Errorf("读取日志失败: %w", err)
	}

	for _, line := range tailLines(string(data), lines) {
		fmt.Fprintln(out, line)
	}
	return nil
}

// tailLines 返回文本的最后 n 个非空结尾行
func tailLines(content string, n int) []string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return nil
	}
	all := strings.Split(content, "\n")
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// cmdRotate 手动触发一次轮转
func cmdRotate(dir, plugin string, backups int) error {
	if plugin == "" {
		return usageErrorf("缺少 --plugin 参数")
	}

	logger, err := ulog.New(dir, plugin, ulog.WithMaxBackups(backups))
	if err != nil {
		return err
	}
	defer logger.Close()

	if err := logger.Rotate(); err != nil {
		return fmt.Errorf("轮转失败: %w", err)
	}
	fmt.Printf("已轮转 %s\n", logger.Path())
	return nil
}

// cmdCheck 校验配置文件并打印解析结果
func cmdCheck(configPath string, out io.Writer) error {
	if configPath == "" {
		return usageErrorf("缺少 --config 参数")
	}

	cfg, err := uconf.Load(configPath)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	lc, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	fmt.Fprintf(out, "配置有效 (%s)\n", cfg.Format())
	fmt.Fprintf(out, "  log_path:       %s\n", lc.LogPath)
	fmt.Fprintf(out, "  plugin_name:    %s\n", lc.PluginName)
	fmt.Fprintf(out, "  clear_on_start: %t\n", lc.ClearOnStart)
	fmt.Fprintf(out, "  max_size_mb:    %d\n", lc.MaxSizeMB)
	fmt.Fprintf(out, "  max_backups:    %d\n", lc.MaxBackups)
	fmt.Fprintf(out, "  level:          %s\n", lc.Level)
	fmt.Fprintf(out, "  console:        %t\n", lc.Console)
	return nil
}
