package quic

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/quic-go/quic-go"

	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
)

// Listener QUIC 监听器
type Listener struct {
	ql        *quic.Listener
	transport *Transport
	closed    atomic.Bool
}

// 确保实现接口
var _ pkgif.Listener = (*Listener)(nil)

func newListener(ql *quic.Listener, t *Transport) *Listener {
	return &Listener{ql: ql, transport: t}
}

// Accept 接受连接
//
// 阻塞直到有新连接、ctx 结束或监听器关闭。
func (l *Listener) Accept(ctx context.Context) (pkgif.Conn, error) {
	if l.closed.Load() {
		return nil, ErrListenerClosed
	}

	qc, err := l.ql.Accept(ctx)
	if err != nil {
		if l.closed.Load() {
			return nil, ErrListenerClosed
		}
		return nil, fmt.Errorf("quic: accept: %w", err)
	}

	c, err := newConn(qc)
	if err != nil {
		_ = qc.CloseWithError(quic.ApplicationErrorCode(pkgif.CodeProtocolViolation), "unusable remote address")
		return nil, err
	}
	return c, nil
}

// Addr 返回实际监听地址
func (l *Listener) Addr() net.Addr {
	return l.ql.Addr()
}

// Close 关闭监听器及其 UDP socket
func (l *Listener) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	if l.transport != nil {
		l.transport.forget(l)
	}
	return l.ql.Close()
}
