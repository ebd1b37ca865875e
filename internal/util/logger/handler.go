package logger

import (
	"context"
	"log/slog"

	"github.com/dep2p/go-gamenet/pkg/lib/log"
)

// componentHandler 按 component 属性过滤级别的 slog.Handler
//
// 内层 handler 的级别设为所有组件中的最低级别，真正的过滤在 Enabled 中完成。
type componentHandler struct {
	settings  *Settings
	component string
	level     slog.Level
	inner     slog.Handler
}

func newComponentHandler(settings *Settings, inner slog.Handler) *componentHandler {
	return &componentHandler{
		settings: settings,
		level:    settings.DefaultLevel,
		inner:    inner,
	}
}

// Enabled 检查组件级别
func (h *componentHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle 处理日志记录
func (h *componentHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

// WithAttrs 添加属性，遇到 component 属性时切换到该组件的级别
func (h *componentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &componentHandler{
		settings:  h.settings,
		component: h.component,
		level:     h.level,
		inner:     h.inner.WithAttrs(attrs),
	}
	for _, a := range attrs {
		if a.Key == log.ComponentKey {
			next.component = a.Value.String()
			next.level = h.settings.LevelFor(next.component)
		}
	}
	return next
}

// WithGroup 添加组
func (h *componentHandler) WithGroup(name string) slog.Handler {
	return &componentHandler{
		settings:  h.settings,
		component: h.component,
		level:     h.level,
		inner:     h.inner.WithGroup(name),
	}
}

// levelName 级别名称（小写）
func levelName(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "trace"
	case level < slog.LevelInfo:
		return "debug"
	case level < slog.LevelWarn:
		return "info"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}

// replaceAttr 简化时间和级别输出
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(levelName(lvl))
		}
	}
	return a
}
