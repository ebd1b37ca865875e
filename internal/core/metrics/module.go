package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// Module 返回 Fx 模块
//
// 提供独立的 *prometheus.Registry（含 Go 运行时与进程指标）和基于它的 Reporter。
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(
			NewRegistry,
			fx.Annotate(
				func(reg *prometheus.Registry) *Collector { return NewCollector(reg) },
				fx.As(new(Reporter)),
			),
		),
	)
}

// NewRegistry 创建带运行时指标的注册表
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
