package gamenet

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-gamenet/config"
	"github.com/dep2p/go-gamenet/internal/core/handler"
	"github.com/dep2p/go-gamenet/internal/core/security/cert"
	"github.com/dep2p/go-gamenet/pkg/lib/log"
)

var logger = log.Logger("gamenet")

// Server gamenet 服务端门面
//
// 由 New 创建，Start 开始监听，Close 关闭所有连接并释放资源。
// Commands / Send 是与应用之间唯一的数据边界。
type Server struct {
	config *serverConfig
	app    *fx.App

	// 由 Fx 注入
	handler *handler.Handler
	metrics *prometheus.Registry

	mu    sync.Mutex
	state State
}

// New 创建服务端
//
// 未通过 WithCertificate 提供证书时，从 network.certs / network.key 读取 PEM 文件，
// 读取或解析失败直接返回。
func New(opts ...Option) (*Server, error) {
	cfg := newServerConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if cfg.material == nil {
		m, err := cert.LoadFiles(cfg.config.Network.Certs, cfg.config.Network.Key)
		if err != nil {
			return nil, fmt.Errorf("load certificate: %w", err)
		}
		cfg.material = m
	}
	logger.Debug("证书材料已加载", "material", cfg.material)

	s := &Server{config: cfg}

	var err error
	s.app, err = buildFxApp(cfg, s)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return s, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              应用边界
// ════════════════════════════════════════════════════════════════════════════

// Commands 返回入站命令通道
//
// 通道在 Server 整个生命周期内有效，从不关闭。
func (s *Server) Commands() <-chan Inbound {
	return s.handler.Commands()
}

// Send 把出站事件放入队列，队列满时阻塞直到有空位或 ctx 结束
func (s *Server) Send(ctx context.Context, out Outbound) error {
	return s.handler.Send(ctx, out)
}

// ════════════════════════════════════════════════════════════════════════════
//                              状态查询
// ════════════════════════════════════════════════════════════════════════════

// Addr 返回实际监听地址，未运行时为 nil
func (s *Server) Addr() net.Addr {
	return s.handler.Addr()
}

// Clients 返回当前在线客户端地址（按地址排序）
func (s *Server) Clients() []netip.AddrPort {
	return s.handler.Clients()
}

// ClientCount 返回在线客户端数量
func (s *Server) ClientCount() int {
	return s.handler.ClientCount()
}

// Metrics 返回指标注册表，可交给 promhttp 暴露
func (s *Server) Metrics() *prometheus.Registry {
	return s.metrics
}

// Config 返回配置副本
func (s *Server) Config() *config.Config {
	return s.config.config.Clone()
}

// State 返回当前状态
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
