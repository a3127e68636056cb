package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var level = new(slog.LevelVar)

// New 创建输出到 stdout 的文本日志，并设为 slog 默认日志
func New(lvl string) *slog.Logger {
	return NewWithWriter(os.Stdout, lvl)
}

// NewWithWriter 同 New, 可指定输出
func NewWithWriter(w io.Writer, lvl string) *slog.Logger {
	SetLevel(lvl)
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	return l
}

// NewDiscard 丢弃所有输出, 用于测试
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetLevel 调整 New 创建的日志级别
func SetLevel(lvl string) {
	level.Set(ParseLevel(lvl))
}

// ParseLevel 解析 debug/info/warn/error, 未知值为 info
func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
