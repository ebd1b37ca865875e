package interfaces

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/netip"
)

// Transport 加密传输
//
// 服务端通过 Listen 获得监听器，客户端通过 Dial 建立连接。
type Transport interface {
	// Name 返回传输名称（"quic" / "websocket"）
	Name() string

	// Listen 在 addr 上监听
	Listen(addr netip.AddrPort, tlsConf *tls.Config) (Listener, error)

	// Dial 连接到 addr（"host:port"）
	Dial(ctx context.Context, addr string, tlsConf *tls.Config) (Conn, error)

	// Close 关闭传输及其所有监听器
	Close() error
}

// Listener 监听器
type Listener interface {
	// Accept 接受一个连接，阻塞直到有新连接、ctx 结束或监听器关闭
	Accept(ctx context.Context) (Conn, error)

	// Addr 返回实际监听地址
	Addr() net.Addr

	// Close 关闭监听器，已接受的连接不受影响
	Close() error
}

// Conn 一条加密连接
//
// 多个 goroutine 可以并发调用 Conn 的方法。
type Conn interface {
	// RemoteAddr 返回规范化的对端地址
	RemoteAddr() netip.AddrPort

	// LocalAddr 返回本地地址
	LocalAddr() net.Addr

	// AcceptStream 接受对端打开的双向流
	AcceptStream(ctx context.Context) (Stream, error)

	// OpenStream 打开一条双向流
	OpenStream(ctx context.Context) (Stream, error)

	// CloseWithError 以应用错误码和原因关闭连接，重复调用无副作用
	CloseWithError(code CloseCode, reason string) error

	// Done 在连接关闭（任一方）后关闭
	Done() <-chan struct{}
}

// Stream 一条有序的双向字节流
type Stream interface {
	io.Reader
	io.Writer

	// Close 关闭写方向
	Close() error
}
