// Package quic 提供基于 QUIC 的传输实现
//
// 每个连接由客户端打开一条双向流承载全部帧。服务端的 Listen 与客户端的
// Dial 各自使用独立的 UDP socket，监听器关闭时其 socket 一并关闭。
package quic

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/dep2p/go-gamenet/config"
	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
	"github.com/dep2p/go-gamenet/pkg/lib/log"
	"github.com/dep2p/go-gamenet/pkg/protocol"
)

var logger = log.Logger("core/transport/quic")

// Name 传输名称
const Name = config.TransportQUIC

// Config QUIC 传输参数
type Config struct {
	MaxIdleTimeout     time.Duration
	KeepAlivePeriod    time.Duration
	MaxIncomingStreams int64
}

// ConfigFromUnified 从统一配置创建 QUIC 参数
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Config{
		MaxIdleTimeout:     cfg.QUIC.MaxIdleTimeout.Duration(),
		KeepAlivePeriod:    cfg.QUIC.KeepAlivePeriod.Duration(),
		MaxIncomingStreams: cfg.QUIC.MaxIncomingStreams,
	}
}

// Transport QUIC 传输
type Transport struct {
	mu sync.Mutex

	config    *quic.Config
	listeners map[*Listener]struct{}
	closed    bool
}

// 确保实现接口
var _ pkgif.Transport = (*Transport)(nil)

// New 创建 QUIC 传输
func New(cfg Config) *Transport {
	return &Transport{
		config: &quic.Config{
			MaxIdleTimeout:     cfg.MaxIdleTimeout,
			KeepAlivePeriod:    cfg.KeepAlivePeriod,
			MaxIncomingStreams: cfg.MaxIncomingStreams,
			// 不使用单向流
			MaxIncomingUniStreams: -1,
		},
		listeners: make(map[*Listener]struct{}),
	}
}

// Name 返回传输名称
func (t *Transport) Name() string {
	return Name
}

// Listen 在 addr 上监听
func (t *Transport) Listen(addr netip.AddrPort, tlsConf *tls.Config) (pkgif.Listener, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrTransportClosed
	}
	if tlsConf == nil || (len(tlsConf.Certificates) == 0 && tlsConf.GetCertificate == nil) {
		return nil, ErrNoCertificate
	}

	ql, err := quic.ListenAddr(addr.String(), withALPN(tlsConf), t.config.Clone())
	if err != nil {
		return nil, fmt.Errorf("quic: listen %s: %w", addr, err)
	}

	l := newListener(ql, t)
	t.listeners[l] = struct{}{}
	logger.Debug("QUIC 监听器已创建", "addr", ql.Addr())
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

	qc, err := quic.DialAddr(ctx, addr, withALPN(tlsConf), t.config.Clone())
	if err != nil {
		return nil, fmt.Errorf("quic: dial %s: %w", addr, err)
	}
	c, err := newConn(qc)
	if err != nil {
		_ = qc.CloseWithError(0, "")
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

	for _, l := range listeners {
		_ = l.Close()
	}
	return nil
}

// forget 监听器关闭时从传输中移除
func (t *Transport) forget(l *Listener) {
	t.mu.Lock()
	delete(t.listeners, l)
	t.mu.Unlock()
}

// withALPN 在未指定 ALPN 时补上 gamenet/1
func withALPN(tlsConf *tls.Config) *tls.Config {
	if tlsConf == nil {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS13}
	}
	if len(tlsConf.NextProtos) > 0 {
		return tlsConf
	}
	c := tlsConf.Clone()
	c.NextProtos = []string{protocol.ALPN}
	return c
}
