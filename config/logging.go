package config

import "strings"

// 日志输出格式
const (
	LogFormatDefault = "default"
	LogFormatPretty  = "pretty"
	LogFormatJSON    = "json"
)

// LoggingConfig 日志配置
type LoggingConfig struct {
	// OutputFormat 输出格式: default / pretty / json
	OutputFormat string `json:"output_format"`

	// LogLevel 默认级别: trace / debug / info / warn / error
	LogLevel string `json:"log_level"`
}

// DefaultLoggingConfig 返回默认日志配置
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		OutputFormat: LogFormatDefault,
		LogLevel:     "info",
	}
}

// Validate 验证日志配置
func (c LoggingConfig) Validate() error {
	switch c.OutputFormat {
	case LogFormatDefault, LogFormatPretty, LogFormatJSON:
	default:
		return invalid("logging.output_format", "unknown format %q", c.OutputFormat)
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return invalid("logging.log_level", "unknown level %q", c.LogLevel)
	}
	return nil
}

// DiagnosticsConfig 诊断服务配置
type DiagnosticsConfig struct {
	// MetricsAddr Prometheus 指标服务监听地址，空表示禁用
	MetricsAddr string `json:"metrics_addr"`
}

// DefaultDiagnosticsConfig 返回默认诊断配置
func DefaultDiagnosticsConfig() DiagnosticsConfig {
	return DiagnosticsConfig{}
}

// Validate 验证诊断配置
func (c DiagnosticsConfig) Validate() error {
	if c.MetricsAddr == "" {
		return nil
	}
	if !strings.Contains(c.MetricsAddr, ":") {
		return invalid("diagnostics.metrics_addr", "%q is not host:port", c.MetricsAddr)
	}
	return nil
}
