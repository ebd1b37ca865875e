package websocket

import (
	"context"
	"errors"
	"io"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	gws "github.com/gorilla/websocket"

	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// closeCodeBase 私有关闭码起点
const closeCodeBase = 4000

// closeWriteTimeout 发送关闭帧的超时
const closeWriteTimeout = time.Second

// CloseCodeOf 从读取错误中取出对端的关闭码
func CloseCodeOf(err error) (pkgif.CloseCode, bool) {
	var ce *gws.CloseError
	if !errors.As(err, &ce) || ce.Code < closeCodeBase {
		return 0, false
	}
	return pkgif.CloseCode(ce.Code - closeCodeBase), true
}

// Conn WebSocket 连接
//
// 一个连接只承载一条流，AcceptStream 与 OpenStream 合计只能成功一次。
type Conn struct {
	ws     *gws.Conn
	remote netip.AddrPort
	stream *Stream

	streamTaken atomic.Bool
	done        chan struct{}
	closeOnce   sync.Once
}

// 确保实现接口
var _ pkgif.Conn = (*Conn)(nil)

func newConn(ws *gws.Conn, readLimit int64) (*Conn, error) {
	remote, err := protocol.AddrPortOf(ws.RemoteAddr())
	if err != nil {
		return nil, err
	}
	if readLimit > 0 {
		ws.SetReadLimit(readLimit)
	}
	c := &Conn{
		ws:     ws,
		remote: remote,
		done:   make(chan struct{}),
	}
	c.stream = &Stream{conn: c}
	return c, nil
}

// RemoteAddr 返回对端地址
func (c *Conn) RemoteAddr() netip.AddrPort {
	return c.remote
}

// LocalAddr 返回本地地址
func (c *Conn) LocalAddr() net.Addr {
	return c.ws.LocalAddr()
}

// AcceptStream 返回连接承载的流
func (c *Conn) AcceptStream(ctx context.Context) (pkgif.Stream, error) {
	return c.takeStream(ctx)
}

// OpenStream 返回连接承载的流
func (c *Conn) OpenStream(ctx context.Context) (pkgif.Stream, error) {
	return c.takeStream(ctx)
}

// takeStream 第一次调用立即返回流，之后阻塞到连接关闭或 ctx 结束
func (c *Conn) takeStream(ctx context.Context) (pkgif.Stream, error) {
	if !c.streamTaken.Swap(true) {
		return c.stream, nil
	}
	select {
	case <-c.done:
		return nil, ErrConnClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CloseWithError 发送关闭帧并关闭底层连接
func (c *Conn) CloseWithError(code pkgif.CloseCode, reason string) error {
	c.closeOnce.Do(func() {
		msg := gws.FormatCloseMessage(closeCodeBase+int(code), reason)
		_ = c.ws.WriteControl(gws.CloseMessage, msg, time.Now().Add(closeWriteTimeout))
		_ = c.ws.Close()
		close(c.done)
	})
	return nil
}

// Done 连接关闭后关闭
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// terminate 读取失败后关闭连接，不发送关闭帧
func (c *Conn) terminate() {
	c.closeOnce.Do(func() {
		_ = c.ws.Close()
		close(c.done)
	})
}

// Stream WebSocket 连接上的字节流
type Stream struct {
	conn *Conn

	// 读侧只有一个读者
	cur io.Reader

	wmu         sync.Mutex
	writeClosed bool
}

// 确保实现接口
var _ pkgif.Stream = (*Stream)(nil)

// Read 读取字节，跨越二进制消息边界
func (s *Stream) Read(p []byte) (int, error) {
	for {
		if s.cur == nil {
			mt, r, err := s.conn.ws.NextReader()
			if err != nil {
				s.conn.terminate()
				if _, ok := CloseCodeOf(err); ok {
					return 0, err
				}
				if gws.IsCloseError(err, gws.CloseNormalClosure, gws.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			if mt != gws.BinaryMessage {
				continue
			}
			s.cur = r
		}

		n, err := s.cur.Read(p)
		if errors.Is(err, io.EOF) {
			s.cur = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// Write 以一条二进制消息发送 p
func (s *Stream) Write(p []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if s.writeClosed {
		return 0, ErrStreamClosed
	}
	if err := s.conn.ws.WriteMessage(gws.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close 关闭写方向
//
// WebSocket 没有半关闭，只拒绝后续写入。
func (s *Stream) Close() error {
	s.wmu.Lock()
	s.writeClosed = true
	s.wmu.Unlock()
	return nil
}
