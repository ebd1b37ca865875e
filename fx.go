package gamenet

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-gamenet/internal/core/eventbus"
	"github.com/dep2p/go-gamenet/internal/core/handler"
	"github.com/dep2p/go-gamenet/internal/core/metrics"
	"github.com/dep2p/go-gamenet/internal/core/registry"
	"github.com/dep2p/go-gamenet/internal/core/transport"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//
//	Transport → Registry → EventBus → Metrics → Handler
//
// OnStop 逆序执行：Handler 先以 CodeShutdown 关闭连接，最后关闭传输。
func buildFxApp(cfg *serverConfig, s *Server) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(cfg.config),
		fx.Supply(cfg.material),

		transport.Module(),
		registry.Module(),
		eventbus.Module(),
		metrics.Module(),
		handler.Module(),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 用户扩展（Fx Options）
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, cfg.userFxOptions...)

	// ════════════════════════════════════════════════════════════════════════
	// 4. Server 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Invoke(func(h *handler.Handler, reg *prometheus.Registry) {
		s.handler = h
		s.metrics = reg
	}))

	// ════════════════════════════════════════════════════════════════════════
	// 5. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}
