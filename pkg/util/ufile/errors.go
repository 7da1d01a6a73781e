package ufile

import "errors"

var (
	// ErrEmptyPath 表示必需的路径参数为空。
	ErrEmptyPath = errors.New("ufile: path is required")

	// ErrInvalidPath 表示路径格式无效（如目录路径、非绝对基准目录等）。
	ErrInvalidPath = errors.New("ufile: invalid path")

	// ErrPathTraversal 表示检测到路径穿越（".." 路径段）。
	ErrPathTraversal = errors.New("ufile: path traversal detected")

	// ErrPathEscaped 表示路径超出了指定的基准目录范围。
	ErrPathEscaped = errors.New("ufile: path escapes base directory")

	// ErrNullByte 表示路径中包含空字节（\x00）。Linux 内核会在空字节处截断路径，
	// 导致 Go 代码与操作系统看到的路径不一致。
	ErrNullByte = errors.New("ufile: path contains null byte")

	// ErrInvalidPerm 表示目录权限无效（缺少所有者执行位时目录无法遍历）。
	ErrInvalidPerm = errors.New("ufile: invalid directory permission")
)
