package websocket

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
)

// acceptBacklog 已升级但尚未被 Accept 取走的连接数上限
const acceptBacklog = 16

// Listener WebSocket 监听器
type Listener struct {
	transport *Transport
	ln        net.Listener
	srv       *http.Server

	accepted  chan *Conn
	closing   chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// 确保实现接口
var _ pkgif.Listener = (*Listener)(nil)

func newListener(t *Transport, ln net.Listener) *Listener {
	l := &Listener{
		transport: t,
		ln:        ln,
		accepted:  make(chan *Conn, acceptBacklog),
		closing:   make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(t.config.Path, l.handleUpgrade)
	l.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: t.config.HandshakeTimeout,
	}
	return l
}

func (l *Listener) serve() {
	err := l.srv.Serve(l.ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("WebSocket 服务退出", "addr", l.ln.Addr(), "error", err)
	}
}

// handleUpgrade 升级 HTTP 请求并把连接交给 Accept
func (l *Listener) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != l.transport.config.Path {
		http.NotFound(w, r)
		return
	}

	ws, err := l.transport.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已写回错误响应
		logger.Debug("WebSocket 升级失败", "remote", r.RemoteAddr, "error", err)
		return
	}

	c, err := newConn(ws, l.transport.readLimit())
	if err != nil {
		_ = ws.Close()
		logger.Debug("无法解析对端地址", "remote", r.RemoteAddr, "error", err)
		return
	}

	select {
	case l.accepted <- c:
	case <-l.closing:
		_ = c.CloseWithError(pkgif.CodeShutdown, pkgif.ReasonShutdown)
	}
}

// Accept 接受连接
func (l *Listener) Accept(ctx context.Context) (pkgif.Conn, error) {
	select {
	case <-l.closing:
		return nil, ErrListenerClosed
	default:
	}

	select {
	case c := <-l.accepted:
		return c, nil
	case <-l.closing:
		return nil, ErrListenerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Addr 返回实际监听地址
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close 停止 HTTPS 服务并关闭尚未取走的连接
//
// 已被 Accept 取走的连接不受影响。
func (l *Listener) Close() error {
	l.closeOnce.Do(func() {
		close(l.closing)
		l.transport.forget(l)
		l.closeErr = l.srv.Close()

		for {
			select {
			case c := <-l.accepted:
				_ = c.CloseWithError(pkgif.CodeShutdown, pkgif.ReasonShutdown)
			default:
				return
			}
		}
	})
	return l.closeErr
}
