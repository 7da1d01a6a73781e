package ulog

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI 控制序列，按级别着色控制台回显
const (
	ansiReset   = "\033[0m"
	ansiGreen   = "\033[92m"
	ansiWhite   = "\033[97m"
	ansiYellow  = "\033[93m"
	ansiRed     = "\033[91m"
	ansiMagenta = "\033[95m"
)

// levelColor 返回级别对应的 ANSI 颜色序列
func levelColor(lvl Level) string {
	switch {
	case lvl >= LevelCritical:
		return ansiMagenta
	case lvl >= LevelError:
		return ansiRed
	case lvl >= LevelWarning:
		return ansiYellow
	case lvl >= LevelInfo:
		return ansiWhite
	default:
		return ansiGreen
	}
}

// shouldColorize 判断回显目标是否支持 ANSI 颜色。
// 仅当目标是真正的终端（含 Cygwin/MSYS 伪终端）时着色，
// 重定向到文件或管道时输出纯文本。
func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// echoConsole 把日志行回显到控制台。line 已带换行。
// 回显失败静默忽略：控制台是辅助输出，不参与故障计数。
func echoConsole(w io.Writer, lvl Level, line string, colorize bool) {
	if colorize {
		_, _ = io.WriteString(w, levelColor(lvl)+line[:len(line)-1]+ansiReset+"\n")
		return
	}
	_, _ = io.WriteString(w, line)
}
