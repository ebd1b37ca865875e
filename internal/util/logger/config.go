// Package logger 安装 gamenet 进程级的 slog handler
//
// 配置来源为 config.LoggingConfig，环境变量可覆盖：
//   - GAMENET_LOG_LEVEL: 日志级别，支持按组件配置
//     格式: 组件=级别,组件=级别,默认级别
//     示例: core/handler=debug,core/eventbus=warn,info
//   - GAMENET_LOG_FORMAT: default / pretty / json
//
// 组件名来自 pkg/lib/log.Logger("core/handler") 注入的 component 属性。
package logger

import (
	"log/slog"
	"strings"

	"github.com/dep2p/go-gamenet/config"
	"github.com/dep2p/go-gamenet/pkg/lib/log"
)

// 环境变量名
const (
	EnvLogLevel  = "GAMENET_LOG_LEVEL"
	EnvLogFormat = "GAMENET_LOG_FORMAT"
)

// Settings 解析后的日志设置
type Settings struct {
	// DefaultLevel 默认级别
	DefaultLevel slog.Level

	// ComponentLevels 各组件的级别
	ComponentLevels map[string]slog.Level

	// Format 输出格式（config.LogFormat*）
	Format string
}

// LevelFor 返回组件的生效级别
func (s *Settings) LevelFor(component string) slog.Level {
	if lvl, ok := s.ComponentLevels[component]; ok {
		return lvl
	}
	return s.DefaultLevel
}

// minLevel 返回所有级别中最低的一个
func (s *Settings) minLevel() slog.Level {
	m := s.DefaultLevel
	for _, lvl := range s.ComponentLevels {
		if lvl < m {
			m = lvl
		}
	}
	return m
}

// Resolve 合并配置文件与环境变量
//
// lookup 为 nil 时只使用配置文件。
func Resolve(cfg config.LoggingConfig, lookup config.LookupFunc) *Settings {
	s := &Settings{
		DefaultLevel:    slog.LevelInfo,
		ComponentLevels: make(map[string]slog.Level),
		Format:          cfg.OutputFormat,
	}
	if lvl, ok := ParseLevel(cfg.LogLevel); ok {
		s.DefaultLevel = lvl
	}
	if lookup == nil {
		return s
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		parseLevelSpec(s, v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		switch strings.ToLower(v) {
		case config.LogFormatJSON, config.LogFormatPretty:
			s.Format = strings.ToLower(v)
		default:
			s.Format = config.LogFormatDefault
		}
	}
	return s
}

// parseLevelSpec 解析 "组件=级别,...,默认级别"
func parseLevelSpec(s *Settings, spec string) {
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, levelName, found := strings.Cut(part, "=")
		if !found {
			if lvl, ok := ParseLevel(part); ok {
				s.DefaultLevel = lvl
			}
			continue
		}
		if lvl, ok := ParseLevel(strings.TrimSpace(levelName)); ok {
			s.ComponentLevels[strings.TrimSpace(name)] = lvl
		}
	}
}

// ParseLevel 解析级别名称
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return log.LevelTrace, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
