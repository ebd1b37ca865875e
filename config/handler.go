package config

import "time"

// HandlerConfig 连接处理器配置
type HandlerConfig struct {
	// InboundBuffer 入站命令通道容量
	InboundBuffer int `json:"inbound_buffer"`

	// OutboundBuffer 出站事件队列容量
	OutboundBuffer int `json:"outbound_buffer"`
}

// DefaultHandlerConfig 返回默认处理器配置
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		InboundBuffer:  1024,
		OutboundBuffer: 1024,
	}
}

// Validate 验证处理器配置
func (c HandlerConfig) Validate() error {
	if c.InboundBuffer < 1 {
		return invalid("handler.inbound_buffer", "must be at least 1")
	}
	if c.OutboundBuffer < 1 {
		return invalid("handler.outbound_buffer", "must be at least 1")
	}
	return nil
}

// BroadcastConfig 出站广播总线配置
type BroadcastConfig struct {
	// SubscriberBuffer 每个订阅者的缓冲容量
	SubscriberBuffer int `json:"subscriber_buffer"`

	// LagGrace 订阅者缓冲满后允许等待的时间
	//
	// 超过该时间仍未腾出空间的订阅者会被断开。0 表示立即断开。
	LagGrace Duration `json:"lag_grace"`
}

// DefaultBroadcastConfig 返回默认广播配置
func DefaultBroadcastConfig() BroadcastConfig {
	return BroadcastConfig{
		SubscriberBuffer: 1024,
		LagGrace:         0,
	}
}

// Validate 验证广播配置
func (c BroadcastConfig) Validate() error {
	if c.SubscriberBuffer < 1 {
		return invalid("broadcast.subscriber_buffer", "must be at least 1")
	}
	if c.LagGrace < 0 {
		return invalid("broadcast.lag_grace", "must not be negative")
	}
	if c.LagGrace.Duration() > time.Minute {
		return invalid("broadcast.lag_grace", "%s exceeds one minute", c.LagGrace)
	}
	return nil
}
