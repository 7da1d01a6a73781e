package ufile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSanitizePath 测试路径净化的各种输入
func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:    "空路径",
			input:   "",
			wantErr: ErrEmptyPath,
		},
		{
			name:    "空字节",
			input:   "app\x00.log",
			wantErr: ErrNullByte,
		},
		{
			name:    "尾随斜杠表示目录",
			input:   "/var/log/",
			wantErr: ErrInvalidPath,
		},
		{
			name:    "尾随反斜杠",
			input:   "logs\\",
			wantErr: ErrInvalidPath,
		},
		{
			name:    "相对路径穿越",
			input:   "../etc/passwd",
			wantErr: ErrPathTraversal,
		},
		{
			name:  "合法绝对路径",
			input: "/var/log/plugin.log",
			want:  "/var/log/plugin.log",
		},
		{
			name:  "冗余斜杠被规范化",
			input: "/var//log/./plugin.log",
			want:  "/var/log/plugin.log",
		},
		{
			name:  "文件名中的连续点不是穿越",
			input: "app..2024.log",
			want:  "app..2024.log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePath(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestSafeJoin 测试安全拼接的边界
func TestSafeJoin(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		path    string
		want    string
		wantErr error
	}{
		{
			name: "正常拼接",
			base: "/var/log",
			path: "pluginA.log",
			want: filepath.Join("/var/log", "pluginA.log"),
		},
		{
			name:    "空基准目录",
			base:    "",
			path:    "a.log",
			wantErr: ErrEmptyPath,
		},
		{
			name:    "相对基准目录",
			base:    "logs",
			path:    "a.log",
			wantErr: ErrInvalidPath,
		},
		{
			name:    "绝对目标路径",
			base:    "/var/log",
			path:    "/etc/passwd",
			wantErr: ErrInvalidPath,
		},
		{
			name:    "Windows 驱动器路径",
			base:    "/var/log",
			path:    `C:\Windows\win.ini`,
			wantErr: ErrInvalidPath,
		},
		{
			name:    "路径穿越",
			base:    "/var/log",
			path:    "../etc/passwd",
			wantErr: ErrPathTraversal,
		},
		{
			name: "两个点开头的合法文件名",
			base: "/var/log",
			path: "..config",
			want: filepath.Join("/var/log", "..config"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoin(tt.base, tt.path)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// FuzzSanitizePath 确保任意输入不会 panic，且接受的路径不含 ".." 路径段
func FuzzSanitizePath(f *testing.F) {
	f.Add("/var/log/app.log")
	f.Add("../escape")
	f.Add("a\x00b")
	f.Add("trailing/")

	f.Fuzz(func(t *testing.T, input string) {
		got, err := SanitizePath(input)
		if err != nil {
			return
		}
		if hasDotDotSegment(got) {
			t.Errorf("SanitizePath(%q) 接受了含 .. 路径段的结果 %q", input, got)
		}
	})
}
