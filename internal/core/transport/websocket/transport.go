// Package websocket 提供基于 WebSocket over TLS 的传输实现
//
// 每个 WebSocket 连接只承载一条流：流的字节序列由连续的二进制消息拼接而成，
// 每次 Write 发送一条二进制消息。关闭码映射为 4000+CloseCode 的私有关闭码。
package websocket

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"sync"
	"time"

	gws "github.com/gorilla/websocket"
	"go.uber.org/multierr"

	"github.com/dep2p/go-gamenet/config"
	"github.com/dep2p/go-gamenet/internal/core/framing"
	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
	"github.com/dep2p/go-gamenet/pkg/lib/log"
)

var logger = log.Logger("core/transport/websocket")

// Name 传输名称
const Name = config.TransportWebSocket

// DefaultHandshakeTimeout 握手超时
const DefaultHandshakeTimeout = 10 * time.Second

// Config WebSocket 传输参数
type Config struct {
	// Path 升级请求路径
	Path string
	// MaxFrameSize 单帧负载上限，0 表示不限制
	MaxFrameSize uint32
	// HandshakeTimeout TLS 与升级握手超时
	HandshakeTimeout time.Duration
}

// ConfigFromUnified 从统一配置创建 WebSocket 参数
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Config{
		Path:             cfg.Network.WebSocketPath,
		MaxFrameSize:     cfg.Network.MaxFrameSize,
		HandshakeTimeout: DefaultHandshakeTimeout,
	}
}

// Transport WebSocket 传输
type Transport struct {
	mu sync.Mutex

	config    Config
	listeners map[*Listener]struct{}
	closed    bool
}

// 确保实现接口
var _ pkgif.Transport = (*Transport)(nil)

// New 创建 WebSocket 传输
func New(cfg Config) *Transport {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	return &Transport{
		config:    cfg,
		listeners: make(map[*Listener]struct{}),
	}
}

// Name 返回传输名称
func (t *Transport) Name() string {
	return Name
}

// readLimit 单条消息的读取上限
func (t *Transport) readLimit() int64 {
	if t.config.MaxFrameSize == 0 {
		return 0
	}
	return int64(t.config.MaxFrameSize) + framing.PrefixSize
}

// Listen 在 addr 上启动 HTTPS 服务并在配置路径上接受升级
func (t *Transport) Listen(addr netip.AddrPort, tlsConf *tls.Config) (pkgif.Listener, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrTransportClosed
	}
	if tlsConf == nil || (len(tlsConf.Certificates) == 0 && tlsConf.GetCertificate == nil) {
		return nil, ErrNoCertificate
	}

	ln, err := net.Listen("tcp", addr.String())
	if err != nil {
		return nil, fmt.Errorf("websocket: listen %s: %w", addr, err)
	}

	l := newListener(t, tls.NewListener(ln, withHTTP1(tlsConf)))
	t.listeners[l] = struct{}{}
	go l.serve()

	logger.Debug("WebSocket 监听器已创建", "addr", ln.Addr(), "path", t.config.Path)
	return l, nil
}

// Dial 连接到 addr
func (t *Transport) Dial(ctx context.Context, addr string, tlsConf *tls.Config) (pkgif.Conn, error) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return nil, ErrTransportClosed
	}

	u := url.URL{Scheme: "wss", Host: addr, Path: t.config.Path}
	dialer := gws.Dialer{
		TLSClientConfig:  withHTTP1(tlsConf),
		HandshakeTimeout: t.config.HandshakeTimeout,
	}

	ws, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("websocket: dial %s: %w", u.String(), err)
	}

	c, err := newConn(ws, t.readLimit())
	if err != nil {
		_ = ws.Close()
		return nil, err
	}
	return c, nil
}

// Close 关闭传输及其所有监听器
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	listeners := make([]*Listener, 0, len(t.listeners))
	for l := range t.listeners {
		listeners = append(listeners, l)
	}
	t.listeners = nil
	t.mu.Unlock()

	var err error
	for _, l := range listeners {
		err = multierr.Append(err, l.Close())
	}
	return err
}

func (t *Transport) forget(l *Listener) {
	t.mu.Lock()
	delete(t.listeners, l)
	t.mu.Unlock()
}

// upgrader 创建服务端升级器
//
// 游戏客户端不是浏览器，不校验 Origin。
func (t *Transport) upgrader() *gws.Upgrader {
	return &gws.Upgrader{
		HandshakeTimeout: t.config.HandshakeTimeout,
		CheckOrigin:      func(*http.Request) bool { return true },
	}
}

// withHTTP1 WebSocket 升级走 HTTP/1.1，覆盖 ALPN
func withHTTP1(tlsConf *tls.Config) *tls.Config {
	if tlsConf == nil {
		return nil
	}
	c := tlsConf.Clone()
	c.NextProtos = []string{"http/1.1"}
	return c
}
