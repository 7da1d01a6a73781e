package ulog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLevelString 级别名称
func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarning, "WARNING"},
		{LevelError, "ERROR"},
		{LevelCritical, "CRITICAL"},
		{Level(100), "LEVEL(100)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

// TestParseLevel 名称解析与别名
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{" Info ", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarning, false},
		{"warning", LevelWarning, false},
		{"error", LevelError, false},
		{"critical", LevelCritical, false},
		{"fatal", LevelCritical, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestLevelTextRoundTrip 文本编解码往返
func TestLevelTextRoundTrip(t *testing.T) {
	for _, lvl := range []Level{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical} {
		text, err := lvl.MarshalText()
		require.NoError(t, err)

		var decoded Level
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, lvl, decoded)
	}

	var bad Level
	assert.Error(t, bad.UnmarshalText([]byte("nonsense")))
}
