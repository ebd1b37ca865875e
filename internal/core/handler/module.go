package handler

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-gamenet/config"
	"github.com/dep2p/go-gamenet/internal/core/eventbus"
	"github.com/dep2p/go-gamenet/internal/core/metrics"
	"github.com/dep2p/go-gamenet/internal/core/registry"
	"github.com/dep2p/go-gamenet/internal/core/security/cert"
	"github.com/dep2p/go-gamenet/pkg/envelope"
	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
)

// Params Handler 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Transport  pkgif.Transport
	Registry   *registry.Registry
	Bus        *eventbus.Bus[envelope.Outbound]
	Material   *cert.Material   `optional:"true"`
	Reporter   metrics.Reporter `optional:"true"`
}

// Module 返回 Fx 模块
//
// 模块只负责停止：Start 由调用方显式触发，以便把启动错误返回给调用方。
func Module() fx.Option {
	return fx.Module("handler",
		fx.Provide(NewFromParams),
		fx.Invoke(registerLifecycle),
	)
}

// NewFromParams 从 Fx 参数创建处理器
func NewFromParams(p Params) *Handler {
	return New(ConfigFromUnified(p.UnifiedCfg), p.Transport, p.Registry, p.Bus, p.Material, p.Reporter)
}

// registerLifecycle 停止时关闭处理器
func registerLifecycle(lc fx.Lifecycle, h *Handler) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return h.Shutdown(ctx)
		},
	})
}
