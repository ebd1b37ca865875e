package quic

import (
	"context"
	"net"
	"net/netip"

	"github.com/quic-go/quic-go"

	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// Conn QUIC 连接
type Conn struct {
	qc     *quic.Conn
	remote netip.AddrPort
}

// 确保实现接口
var _ pkgif.Conn = (*Conn)(nil)

func newConn(qc *quic.Conn) (*Conn, error) {
	remote, err := protocol.AddrPortOf(qc.RemoteAddr())
	if err != nil {
		return nil, err
	}
	return &Conn{qc: qc, remote: remote}, nil
}

// RemoteAddr 返回对端地址
func (c *Conn) RemoteAddr() netip.AddrPort {
	return c.remote
}

// LocalAddr 返回本地地址
func (c *Conn) LocalAddr() net.Addr {
	return c.qc.LocalAddr()
}

// AcceptStream 接受对端打开的双向流
//
// 对端打开的流在其写入第一个字节之前对本端不可见。
func (c *Conn) AcceptStream(ctx context.Context) (pkgif.Stream, error) {
	qs, err := c.qc.AcceptStream(ctx)
	if err != nil {
		return nil, err
	}
	return newStream(qs), nil
}

// OpenStream 打开一条双向流
//
// 在锁外调用可能阻塞的 OpenStreamSync。
func (c *Conn) OpenStream(ctx context.Context) (pkgif.Stream, error) {
	qs, err := c.qc.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	return newStream(qs), nil
}

// CloseWithError 以应用错误码关闭连接
func (c *Conn) CloseWithError(code pkgif.CloseCode, reason string) error {
	return c.qc.CloseWithError(quic.ApplicationErrorCode(code), reason)
}

// Done 连接关闭后关闭
func (c *Conn) Done() <-chan struct{} {
	return c.qc.Context().Done()
}

// QuicConn 返回底层 QUIC 连接
func (c *Conn) QuicConn() *quic.Conn {
	return c.qc
}

// Stream QUIC 双向流
type Stream struct {
	qs *quic.Stream
}

// 确保实现接口
var _ pkgif.Stream = (*Stream)(nil)

func newStream(qs *quic.Stream) *Stream {
	return &Stream{qs: qs}
}

// Read 从流中读取
func (s *Stream) Read(p []byte) (int, error) {
	return s.qs.Read(p)
}

// Write 向流写入
func (s *Stream) Write(p []byte) (int, error) {
	return s.qs.Write(p)
}

// Close 关闭写方向
func (s *Stream) Close() error {
	return s.qs.Close()
}

// ID 返回流 ID
func (s *Stream) ID() int64 {
	return int64(s.qs.StreamID())
}
