package ufile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnsureDir 测试父目录的递归创建与幂等性
func TestEnsureDir(t *testing.T) {
	t.Run("递归创建父目录", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "a", "b", "c", "plugin.log")

		require.NoError(t, EnsureDir(filename))

		info, err := os.Stat(filepath.Dir(filename))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("目录已存在时幂等", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "plugin.log")

		// 目录中已有无关文件，重复创建不得影响它
		other := filepath.Join(tmpDir, "other.txt")
		require.NoError(t, os.WriteFile(other, []byte("keep"), 0600))

		require.NoError(t, EnsureDir(filename))
		require.NoError(t, EnsureDir(filename))

		data, err := os.ReadFile(other)
		require.NoError(t, err)
		assert.Equal(t, "keep", string(data))
	})

	t.Run("空文件名", func(t *testing.T) {
		assert.ErrorIs(t, EnsureDir(""), ErrEmptyPath)
	})

	t.Run("空字节", func(t *testing.T) {
		assert.ErrorIs(t, EnsureDir("a\x00/b.log"), ErrNullByte)
	})

	t.Run("无父目录部分时不报错", func(t *testing.T) {
		assert.NoError(t, EnsureDir("plugin.log"))
	})
}

// TestEnsureDirWithPerm 测试权限校验
func TestEnsureDirWithPerm(t *testing.T) {
	t.Run("缺少所有者执行位被拒绝", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "x", "plugin.log")

		err := EnsureDirWithPerm(filename, 0600)
		assert.ErrorIs(t, err, ErrInvalidPerm)
	})

	t.Run("指定权限创建", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "y", "plugin.log")

		require.NoError(t, EnsureDirWithPerm(filename, 0700))

		info, err := os.Stat(filepath.Dir(filename))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})
}
