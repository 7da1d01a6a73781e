package ulog

import (
	"context"
	"testing"
)

// BenchmarkInfo 基准测试：带参数的 INFO 记录
func BenchmarkInfo(b *testing.B) {
	lg, err := New(b.TempDir(), "bench", WithMaxSizeMB(1024))
	if err != nil {
		b.Fatal(err)
	}
	defer lg.Close()

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lg.Info(ctx, "request %d completed in %dms", i, 42)
	}
}

// BenchmarkInfoFiltered 基准测试：被级别过滤掉的记录
func BenchmarkInfoFiltered(b *testing.B) {
	lg, err := New(b.TempDir(), "bench", WithLevel(LevelError))
	if err != nil {
		b.Fatal(err)
	}
	defer lg.Close()

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lg.Info(ctx, "request %d completed in %dms", i, 42)
	}
}

// BenchmarkException 基准测试：含调用栈捕获的异常记录
func BenchmarkException(b *testing.B) {
	lg, err := New(b.TempDir(), "bench", WithMaxSizeMB(1024))
	if err != nil {
		b.Fatal(err)
	}
	defer lg.Close()

	ctx := context.Background()
	cause := context.DeadlineExceeded
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lg.Exception(ctx, cause, "operation timed out")
	}
}

// BenchmarkCaptureStack 基准测试：调用栈捕获本身
func BenchmarkCaptureStack(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = captureStack()
	}
}
