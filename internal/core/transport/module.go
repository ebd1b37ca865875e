package transport

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-gamenet/config"
	"github.com/dep2p/go-gamenet/internal/core/transport/quic"
	"github.com/dep2p/go-gamenet/internal/core/transport/websocket"
	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
	"github.com/dep2p/go-gamenet/pkg/lib/log"
)

var logger = log.Logger("core/transport")

// New 按 network.transport 创建传输
func New(cfg *config.Config) (pkgif.Transport, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	switch cfg.Network.Transport {
	case config.TransportQUIC, "":
		return quic.New(quic.ConfigFromUnified(cfg)), nil
	case config.TransportWebSocket:
		return websocket.New(websocket.ConfigFromUnified(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Network.Transport)
	}
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(ProvideTransport),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideTransport 从统一配置提供传输
func ProvideTransport(cfg *config.Config) (pkgif.Transport, error) {
	tr, err := New(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("传输已创建", "transport", tr.Name())
	return tr, nil
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(lc fx.Lifecycle, tr pkgif.Transport) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return tr.Close()
		},
	})
}
