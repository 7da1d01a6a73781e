package ufile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// containsNullByte 检测路径是否包含空字节。
func containsNullByte(path string) bool {
	return strings.ContainsRune(path, 0)
}

// isWindowsAbsPath 检测 Windows 风格的绝对或驱动器相关路径。
// 在非 Windows 平台上 filepath.IsAbs 不识别 "C:\..." 或 "\\server\..."，
// 需要显式检测以防止跨平台场景下的策略绕过。
func isWindowsAbsPath(path string) bool {
	// 一律拒绝 "X:" 开头的路径，避免 Windows 驱动器相关的语义歧义
	if len(path) >= 2 && isASCIILetter(path[0]) && path[1] == ':' {
		return true
	}
	// 反斜杠开头：Windows 根路径或 UNC 路径；Linux 上此类文件名极罕见，一并拒绝
	return len(path) >= 1 && path[0] == '\\'
}

func isASCIILetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// hasDotDotSegment 检测路径中是否包含 ".." 作为独立路径段。
// 逐字符扫描实现零分配；同时将 '/' 和 '\' 视为分隔符，
// 以检测 Windows 风格的路径穿越（即使在 Linux 上）。
func hasDotDotSegment(path string) bool {
	i := 0
	for i < len(path) {
		if path[i] == '/' || path[i] == '\\' {
			i++
			continue
		}
		j := i
		for j < len(path) && path[j] != '/' && path[j] != '\\' {
			j++
		}
		if j-i == 2 && path[i] == '.' && path[i+1] == '.' {
			return true
		}
		i = j
	}
	return false
}

// SanitizePath 对文件路径进行安全检查和规范化。
//
// 功能：
//   - 路径规范化（消除 . 和冗余斜杠）
//   - 阻止相对路径穿越（如 "../etc/passwd"）
//   - 拒绝空路径、空字节和显式目录路径（尾随 "/" 或 "\"）
//
// 本函数接受绝对路径；绝对路径中的 ".." 会被 filepath.Clean 正常解析。
// 需要将路径限制在固定目录内时使用 [SafeJoin]。
func SanitizePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	if containsNullByte(filename) {
		return "", fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}

	// 尾随分隔符表示目录，必须在 Clean 之前检查（Clean 会移除尾部斜杠）
	if strings.HasSuffix(filename, "/") || strings.HasSuffix(filename, "\\") {
		return "", fmt.Errorf("path is a directory: %w", ErrInvalidPath)
	}

	cleaned := filepath.Clean(filename)

	// 按路径段精确判断，不能用 strings.Contains：
	// 会误伤合法文件名（如 "app..2024.log"）
	if hasDotDotSegment(cleaned) {
		return "", fmt.Errorf("path traversal in filename: %w", ErrPathTraversal)
	}

	base := filepath.Base(cleaned)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("no file name specified: %w", ErrInvalidPath)
	}

	return cleaned, nil
}

// SafeJoin 安全地将相对路径拼接到基准目录内。
//
// 安全保证：
//   - base 必须是绝对路径
//   - path 必须是相对路径（含 Windows 形式的绝对路径都被拒绝）
//   - 拒绝 ".." 穿越，并验证拼接结果仍在 base 内
//
// 默认不解析符号链接：纯路径构建场景（目录尚未创建）也可使用。
// base 目录内指向外部的符号链接不在本函数的防护范围内。
func SafeJoin(base, path string) (string, error) {
	cleanBase, err := validateBase(base)
	if err != nil {
		return "", err
	}

	cleanPath, err := validateRelPath(path)
	if err != nil {
		return "", err
	}

	joined := filepath.Join(cleanBase, cleanPath)
	rel, err := filepath.Rel(cleanBase, joined)
	if err != nil {
		// filepath.Rel 对两个已清理的绝对路径不应失败，此分支防御标准库行为变更
		return "", fmt.Errorf("failed to compute relative path (%v): %w", err, ErrPathEscaped)
	}
	if hasDotDotSegment(rel) {
		return "", ErrPathEscaped
	}
	return joined, nil
}

// validateBase 验证并清理基准目录。
func validateBase(base string) (string, error) {
	if base == "" {
		return "", fmt.Errorf("base directory is required: %w", ErrEmptyPath)
	}
	if containsNullByte(base) {
		return "", fmt.Errorf("base contains null byte: %w", ErrNullByte)
	}
	cleanBase := filepath.Clean(base)
	if !filepath.IsAbs(cleanBase) {
		return "", fmt.Errorf("base must be an absolute path: %w", ErrInvalidPath)
	}
	return cleanBase, nil
}

// validateRelPath 验证并清理目标相对路径。
func validateRelPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is required: %w", ErrEmptyPath)
	}
	if containsNullByte(path) {
		return "", fmt.Errorf("path contains null byte: %w", ErrNullByte)
	}
	if filepath.IsAbs(path) || isWindowsAbsPath(path) {
		return "", fmt.Errorf("path must be relative (absolute path not allowed): %w", ErrInvalidPath)
	}
	cleanPath := filepath.Clean(path)
	// 按路径段精确检测，避免误伤以 ".." 开头的合法文件名（如 "..config"）
	if hasDotDotSegment(cleanPath) {
		return "", fmt.Errorf("path traversal in path: %w", ErrPathTraversal)
	}
	return cleanPath, nil
}
