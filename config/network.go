package config

import (
	"net/netip"
	"strings"
)

// 传输协议名称
const (
	TransportQUIC      = "quic"
	TransportWebSocket = "websocket"
)

// DefaultMaxFrameSize 默认单帧上限（1 MiB）
const DefaultMaxFrameSize = 1 << 20

// NetworkConfig 网络配置
type NetworkConfig struct {
	// Socket 监听地址，格式为 "ip:port"
	Socket string `json:"socket"`

	// Certs 证书链 PEM 文件路径
	Certs string `json:"certs"`

	// Key 私钥 PEM 文件路径
	Key string `json:"key"`

	// Transport 传输协议: "quic" 或 "websocket"
	Transport string `json:"transport"`

	// WebSocketPath WebSocket 传输的 HTTP 路径
	WebSocketPath string `json:"websocket_path"`

	// MaxFrameSize 单帧负载上限（字节），0 表示不限制（u32 全范围）
	MaxFrameSize uint32 `json:"max_frame_size"`
}

// DefaultNetworkConfig 返回默认网络配置
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		Socket:        "0.0.0.0:1234",
		Certs:         "certs.pem",
		Key:           "key.pem",
		Transport:     TransportQUIC,
		WebSocketPath: "/ws",
		MaxFrameSize:  DefaultMaxFrameSize,
	}
}

// Validate 验证网络配置
func (c NetworkConfig) Validate() error {
	if _, err := netip.ParseAddrPort(c.Socket); err != nil {
		return invalid("network.socket", "%q is not ip:port", c.Socket)
	}
	switch c.Transport {
	case TransportQUIC:
	case TransportWebSocket:
		if !strings.HasPrefix(c.WebSocketPath, "/") {
			return invalid("network.websocket_path", "%q must start with /", c.WebSocketPath)
		}
	default:
		return invalid("network.transport", "unknown transport %q", c.Transport)
	}
	return nil
}

// SocketAddr 解析监听地址
func (c NetworkConfig) SocketAddr() (netip.AddrPort, error) {
	ap, err := netip.ParseAddrPort(c.Socket)
	if err != nil {
		return netip.AddrPort{}, invalid("network.socket", "%v", err)
	}
	return ap, nil
}
