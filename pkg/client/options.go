package client

import "github.com/dep2p/go-gamenet/config"

// Option 客户端选项
type Option func(*config.Config)

// WithTransport 选择传输：quic 或 websocket
func WithTransport(name string) Option {
	return func(c *config.Config) {
		c.Network.Transport = name
	}
}

// WithWebSocketPath 设置 WebSocket 升级路径
func WithWebSocketPath(path string) Option {
	return func(c *config.Config) {
		c.Network.WebSocketPath = path
	}
}

// WithMaxFrameSize 设置接收帧上限，0 表示不限制
func WithMaxFrameSize(n uint32) Option {
	return func(c *config.Config) {
		c.Network.MaxFrameSize = n
	}
}

// WithConfig 沿用服务端配置中的传输、路径、帧上限与 QUIC 参数
func WithConfig(cfg *config.Config) Option {
	return func(c *config.Config) {
		if cfg == nil {
			return
		}
		c.Network = cfg.Network
		c.QUIC = cfg.QUIC
	}
}
