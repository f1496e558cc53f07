// Package logging 为可执行程序构建 slog 日志器。
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// EnvLevel 日志级别环境变量，取值 debug/info/warn/error。
const EnvLevel = "HIDHIDE_LOG_LEVEL"

// New 创建输出到 f 的 tint 日志器。f 不是终端时关闭颜色，
// Windows 控制台经 go-colorable 转换 ANSI 颜色序列。
func New(f *os.File, level slog.Level) *slog.Logger {
	noColor := !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())

	var w io.Writer = f
	if !noColor {
		w = colorable.NewColorable(f)
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		AddSource:  level <= slog.LevelDebug,
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	}))
}

// ParseLevel 解析日志级别名称，空串视为 info。
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("无效的日志级别 %q: %w", s, err)
	}
	return level, nil
}

// Setup 按环境变量与 verbose 开关创建 stderr 日志器并设为默认。
// verbose 优先于环境变量。
func Setup(verbose bool) *slog.Logger {
	level, err := ParseLevel(os.Getenv(EnvLevel))
	if verbose {
		level = slog.LevelDebug
	}

	logger := New(os.Stderr, level)
	if err != nil {
		logger.Warn("忽略环境变量", "name", EnvLevel, "error", err)
	}
	slog.SetDefault(logger)
	return logger
}
