package handler

import (
	"net/netip"

	"github.com/dep2p/go-gamenet/config"
)

// Config 处理器配置
type Config struct {
	// Socket 监听地址
	Socket netip.AddrPort

	// InboundBuffer 入站命令通道容量
	InboundBuffer int

	// OutboundBuffer 出站事件队列容量
	OutboundBuffer int

	// MaxFrameSize 单帧负载上限，0 表示 u32 全范围
	MaxFrameSize uint32
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(config.NewConfig())
}

// ConfigFromUnified 从统一配置创建处理器配置
//
// 统一配置应已通过 Validate；无法解析的 socket 回退到默认地址。
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	socket, err := cfg.Network.SocketAddr()
	if err != nil {
		socket, _ = config.DefaultNetworkConfig().SocketAddr()
	}
	return Config{
		Socket:         socket,
		InboundBuffer:  max(cfg.Handler.InboundBuffer, 1),
		OutboundBuffer: max(cfg.Handler.OutboundBuffer, 1),
		MaxFrameSize:   cfg.Network.MaxFrameSize,
	}
}
