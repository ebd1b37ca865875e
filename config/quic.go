package config

import "time"

// QUICConfig QUIC 传输配置
type QUICConfig struct {
	// MaxIdleTimeout 最大空闲超时
	MaxIdleTimeout Duration `json:"max_idle_timeout"`

	// KeepAlivePeriod KeepAlive 周期，0 表示禁用
	KeepAlivePeriod Duration `json:"keep_alive_period"`

	// MaxIncomingStreams 每个连接允许对端打开的双向流数量
	MaxIncomingStreams int64 `json:"max_incoming_streams"`
}

// DefaultQUICConfig 返回默认 QUIC 配置
func DefaultQUICConfig() QUICConfig {
	return QUICConfig{
		MaxIdleTimeout:     Duration(30 * time.Second),
		KeepAlivePeriod:    Duration(10 * time.Second),
		MaxIncomingStreams: 16,
	}
}

// Validate 验证 QUIC 配置
func (c QUICConfig) Validate() error {
	if c.MaxIdleTimeout <= 0 {
		return invalid("quic.max_idle_timeout", "must be positive")
	}
	if c.KeepAlivePeriod < 0 {
		return invalid("quic.keep_alive_period", "must not be negative")
	}
	if c.KeepAlivePeriod >= c.MaxIdleTimeout {
		return invalid("quic.keep_alive_period", "must be shorter than max_idle_timeout")
	}
	if c.MaxIncomingStreams < 1 {
		return invalid("quic.max_incoming_streams", "must be at least 1")
	}
	return nil
}
