package logger

import (
	"context"
	"io"
	"log/slog"

	"github.com/dep2p/go-gamenet/config"
)

// NewHandler 根据设置创建 handler
func NewHandler(w io.Writer, s *Settings) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       s.minLevel(),
		AddSource:   s.Format == config.LogFormatPretty,
		ReplaceAttr: replaceAttr,
	}

	var inner slog.Handler
	if s.Format == config.LogFormatJSON {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}
	return newComponentHandler(s, inner)
}

// Setup 安装进程默认 logger 并返回它
//
// 之后所有 log.Logger(...) 组件 logger 都会经过该 handler。
func Setup(w io.Writer, cfg config.LoggingConfig, lookup config.LookupFunc) *slog.Logger {
	l := slog.New(NewHandler(w, Resolve(cfg, lookup)))
	slog.SetDefault(l)
	return l
}

// discardHandler 丢弃所有日志
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Discard 返回丢弃所有日志的 logger（用于测试）
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}
