package registry

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
)

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("registry",
		fx.Provide(New),
		fx.Invoke(registerLifecycle),
	)
}

// registerLifecycle 停止时关闭残留连接
func registerLifecycle(lc fx.Lifecycle, r *Registry) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			_, err := r.CloseAll(pkgif.CodeShutdown, pkgif.ReasonShutdown)
			return err
		},
	})
}
