// Package client 提供连接 gamenet 服务端的客户端
//
// 客户端打开一条双向流，以长度前缀帧发送 Command、接收 Event。
// QUIC 传输下服务端在客户端写入第一帧之后才能看到这条流，
// 因此客户端应先 Send（通常是 Join）再等待事件。
//
//	c, err := client.Dial(ctx, "127.0.0.1:1234", tlsConf)
//	defer c.Close()
//
//	_ = c.Send(protocol.Join{UUID: 7, Hash: 42})
//	ev, err := c.Receive()
package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"

	"github.com/quic-go/quic-go"

	"github.com/dep2p/go-gamenet/config"
	"github.com/dep2p/go-gamenet/internal/core/framing"
	"github.com/dep2p/go-gamenet/internal/core/transport"
	"github.com/dep2p/go-gamenet/internal/core/transport/websocket"
	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// ReasonClientClosed 客户端主动关闭时的原因
const ReasonClientClosed = "client closed"

// ErrClosed 客户端已关闭
var ErrClosed = errors.New("client: closed")

// Client 客户端连接
type Client struct {
	tr     pkgif.Transport
	conn   pkgif.Conn
	stream pkgif.Stream

	maxFrameSize uint32

	wmu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// Dial 连接到 addr 并打开双向流
func Dial(ctx context.Context, addr string, tlsConf *tls.Config, opts ...Option) (*Client, error) {
	cfg := config.NewConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	tr, err := transport.New(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := tr.Dial(ctx, addr, tlsConf)
	if err != nil {
		_ = tr.Close()
		return nil, fmt.Errorf("client: dial %s: %w", addr, err)
	}

	stream, err := conn.OpenStream(ctx)
	if err != nil {
		_ = conn.CloseWithError(pkgif.CodeHandlerEnded, ReasonClientClosed)
		_ = tr.Close()
		return nil, fmt.Errorf("client: open stream: %w", err)
	}

	return &Client{
		tr:           tr,
		conn:         conn,
		stream:       stream,
		maxFrameSize: cfg.Network.MaxFrameSize,
		closed:       make(chan struct{}),
	}, nil
}

// Send 发送一条命令
//
// 可并发调用，帧不会交错。
func (c *Client) Send(cmd protocol.Command) error {
	frame, err := framing.EncodeCommand(cmd)
	if err != nil {
		return err
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if c.isClosed() {
		return ErrClosed
	}
	if _, err := c.stream.Write(frame); err != nil {
		return fmt.Errorf("client: send: %w", err)
	}
	return nil
}

// SendRaw 发送一帧任意负载，用于测试服务端对异常负载的处理
func (c *Client) SendRaw(payload []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if c.isClosed() {
		return ErrClosed
	}
	return framing.WriteFrame(c.stream, payload)
}

// Receive 阻塞读取下一条事件
//
// 只能由一个 goroutine 调用。服务端关闭连接时返回的错误可用 CloseCodeOf 取出关闭码。
func (c *Client) Receive() (protocol.Event, error) {
	payload, err := framing.ReadFrame(c.stream, c.maxFrameSize)
	if err != nil {
		return nil, err
	}
	return protocol.UnmarshalEvent(payload)
}

// RemoteAddr 返回服务端地址
func (c *Client) RemoteAddr() netip.AddrPort {
	return c.conn.RemoteAddr()
}

// LocalAddr 返回本地地址
func (c *Client) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// Done 连接关闭后关闭
func (c *Client) Done() <-chan struct{} {
	return c.conn.Done()
}

// Close 关闭连接，可重复调用
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.CloseWithError(pkgif.CodeHandlerEnded, ReasonClientClosed)
		_ = c.tr.Close()
	})
	return err
}

func (c *Client) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// CloseCodeOf 从 Receive 的错误中取出服务端的关闭码
func CloseCodeOf(err error) (pkgif.CloseCode, bool) {
	var appErr *quic.ApplicationError
	if errors.As(err, &appErr) && appErr.Remote {
		return pkgif.CloseCode(appErr.ErrorCode), true
	}
	return websocket.CloseCodeOf(err)
}
