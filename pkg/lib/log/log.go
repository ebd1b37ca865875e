// Package log 提供 gamenet 统一日志接口
//
// 基于 Go 标准库 log/slog 封装。组件通过 Logger("core/handler") 获取
// 带组件名的懒加载 logger，进程级的 handler 由 internal/util/logger
// 根据配置统一安装。
package log

import (
	"context"
	"log/slog"
)

// LevelTrace 比 Debug 更详细，用于逐帧日志
const LevelTrace = slog.Level(-8)

// ComponentKey 组件名属性键
//
// internal/util/logger 的 handler 依据该属性做按组件的级别过滤。
const ComponentKey = "component"

// LazyLogger 懒加载 logger
//
// 每次日志调用时都从 slog.Default() 获取最新的 handler，
// 因此包级变量在 main 安装 handler 之前创建也能生效。
//
//	var logger = log.Logger("core/registry")
//	logger.Info("连接已注册", "addr", addr)
type LazyLogger struct {
	component string
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

func (l *LazyLogger) current() *slog.Logger {
	return slog.Default().With(ComponentKey, l.component)
}

// Trace 输出 Trace 级别日志
func (l *LazyLogger) Trace(msg string, args ...any) {
	l.current().Log(context.Background(), LevelTrace, msg, args...)
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.current().Debug(msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.current().Info(msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.current().Warn(msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.current().Error(msg, args...)
}
