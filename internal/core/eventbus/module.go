package eventbus

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-gamenet/config"
	"github.com/dep2p/go-gamenet/pkg/envelope"
)

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(ProvideBus),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideBus 按 broadcast 配置提供出站事件总线
func ProvideBus(cfg *config.Config) *Bus[envelope.Outbound] {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return New[envelope.Outbound](
		WithBuffer(cfg.Broadcast.SubscriberBuffer),
		WithLagGrace(cfg.Broadcast.LagGrace.Duration()),
	)
}

// registerLifecycle 停止时关闭总线
func registerLifecycle(lc fx.Lifecycle, bus *Bus[envelope.Outbound]) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bus.Close()
		},
	})
}
