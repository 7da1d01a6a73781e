package urotate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSizeFileInterface 验证具体实现满足 Rotator 接口
func TestSizeFileInterface(t *testing.T) {
	var _ Rotator = (*sizeFile)(nil)
}

// TestSizeFileConfigValidation 测试配置验证
func TestSizeFileConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		opts     []SizeOption
		wantErr  error
	}{
		{
			name:     "空文件名",
			filename: "",
			wantErr:  ErrEmptyFilename,
		},
		{
			name:     "MaxSizeMB 为零",
			filename: "/tmp/test.log",
			opts:     []SizeOption{WithMaxSizeMB(0)},
			wantErr:  ErrInvalidMaxSize,
		},
		{
			name:     "MaxSizeMB 为负数",
			filename: "/tmp/test.log",
			opts:     []SizeOption{WithMaxSizeMB(-1)},
			wantErr:  ErrInvalidMaxSize,
		},
		{
			name:     "MaxSizeMB 超过上限",
			filename: "/tmp/test.log",
			opts:     []SizeOption{WithMaxSizeMB(10241)},
			wantErr:  ErrInvalidMaxSize,
		},
		{
			name:     "MaxBackups 为零",
			filename: "/tmp/test.log",
			opts:     []SizeOption{WithMaxBackups(0)},
			wantErr:  ErrInvalidMaxBackups,
		},
		{
			name:     "MaxBackups 超过上限",
			filename: "/tmp/test.log",
			opts:     []SizeOption{WithMaxBackups(65)},
			wantErr:  ErrInvalidMaxBackups,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSizeFile(tt.filename, tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestSizeFileAppendOrder 阈值内的写入按调用顺序原样拼接
func TestSizeFileAppendOrder(t *testing.T) {
	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "order.log")

	r, err := NewSizeFile(filename, WithMaxSizeMB(1))
	require.NoError(t, err)
	defer r.Close()

	lines := []string{"first\n", "second\n", "third\n"}
	for _, line := range lines {
		_, err := r.Write([]byte(line))
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(lines, ""), string(data))
}

// TestSizeFileRotationBoundary 写前检查的轮转边界
//
// 阈值 1 MiB：文件恰好达到 1 MiB 后的下一次写入触发轮转，
// 该写入落在新的空活动文件里，此前的全部内容原样保留在 .1 备份中。
func TestSizeFileRotationBoundary(t *testing.T) {
	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "boundary.log")

	r, err := NewSizeFile(filename, WithMaxSizeMB(1))
	require.NoError(t, err)
	defer r.Close()

	half := strings.Repeat("x", 512*1024)
	_, err = r.Write([]byte(half))
	require.NoError(t, err)
	_, err = r.Write([]byte(half)) // 写前大小 512 KiB < 1 MiB，不轮转
	require.NoError(t, err)

	// 写前大小恰好 1 MiB，本次写入前必须轮转
	_, err = r.Write([]byte("after\n"))
	require.NoError(t, err)

	backup, err := os.ReadFile(filename + ".1")
	require.NoError(t, err)
	assert.Equal(t, half+half, string(backup), "备份必须原样保留轮转前全部内容")

	active, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "after\n", string(active), "轮转后的写入落在空的活动文件")
}

// TestSizeFileTruncate 构造时清空活动文件
func TestSizeFileTruncate(t *testing.T) {
	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "trunc.log")
	require.NoError(t, os.WriteFile(filename, []byte("old content\n"), 0644))

	t.Run("Truncate 清空旧内容", func(t *testing.T) {
		r, err := NewSizeFile(filename, WithTruncate(true))
		require.NoError(t, err)
		defer r.Close()

		info, err := os.Stat(filename)
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	})

	t.Run("默认追加保留旧内容", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filename, []byte("keep\n"), 0644))

		r, err := NewSizeFile(filename)
		require.NoError(t, err)
		defer r.Close()

		_, err = r.Write([]byte("more\n"))
		require.NoError(t, err)

		data, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "keep\nmore\n", string(data))
	})
}

// TestSizeFileManualRotate 手动轮转与备份链后移
func TestSizeFileManualRotate(t *testing.T) {
	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "manual.log")

	r, err := NewSizeFile(filename, WithMaxBackups(2))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Write([]byte("gen-a\n"))
	require.NoError(t, err)
	require.NoError(t, r.Rotate())

	_, err = r.Write([]byte("gen-b\n"))
	require.NoError(t, err)
	require.NoError(t, r.Rotate())

	_, err = r.Write([]byte("gen-c\n"))
	require.NoError(t, err)

	// 最新备份为 .1，上一代被后移到 .2
	b1, err := os.ReadFile(filename + ".1")
	require.NoError(t, err)
	assert.Equal(t, "gen-b\n", string(b1))

	b2, err := os.ReadFile(filename + ".2")
	require.NoError(t, err)
	assert.Equal(t, "gen-a\n", string(b2))

	active, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "gen-c\n", string(active))
}

// TestSizeFileSingleBackupOverwrite 单代保留时旧备份被覆盖
func TestSizeFileSingleBackupOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "single.log")

	r, err := NewSizeFile(filename) // 默认 MaxBackups = 1
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Write([]byte("one\n"))
	require.NoError(t, err)
	require.NoError(t, r.Rotate())

	_, err = r.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, r.Rotate())

	b1, err := os.ReadFile(filename + ".1")
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(b1), "旧备份被最新一代覆盖")

	_, err = os.Stat(filename + ".2")
	assert.True(t, os.IsNotExist(err), "单代保留不产生 .2")
}

// TestSizeFileClosed 关闭契约
func TestSizeFileClosed(t *testing.T) {
	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "closed.log")

	r, err := NewSizeFile(filename)
	require.NoError(t, err)

	require.NoError(t, r.Close())

	_, err = r.Write([]byte("late\n"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Rotate(), ErrClosed)
	assert.ErrorIs(t, r.Close(), ErrClosed)
}

// TestSizeFileCreatesParentDirs 父目录不存在时自动创建
func TestSizeFileCreatesParentDirs(t *testing.T) {
	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "nested", "dir", "deep.log")

	r, err := NewSizeFile(filename)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Write([]byte("ok\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(data))
}

// TestSizeFileConcurrentWrites 并发写入不丢行
func TestSizeFileConcurrentWrites(t *testing.T) {
	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "concurrent.log")

	r, err := NewSizeFile(filename, WithMaxSizeMB(10))
	require.NoError(t, err)
	defer r.Close()

	const writers = 8
	const perWriter = 50

	done := make(chan struct{})
	for i := 0; i < writers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < perWriter; j++ {
				_, _ = r.Write([]byte("line\n"))
			}
		}()
	}
	for i := 0; i < writers; i++ {
		<-done
	}

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, writers*perWriter, strings.Count(string(data), "line\n"))
}
