// Package metrics 提供连接与帧的 Prometheus 指标
//
// Reporter 是处理器上报指标的接口，Collector 以 promauto 在给定的
// Registerer 上注册计数器，Nop 丢弃所有上报。
//
// # 指标
//
//   - gamenet_connections_active：当前连接数
//   - gamenet_connections_accepted_total：已接受连接数
//   - gamenet_connections_closed_total{code}：按关闭码统计的关闭数
//   - gamenet_frames_received_total / gamenet_frames_sent_total：帧数
//   - gamenet_bytes_received_total / gamenet_bytes_sent_total：含长度前缀的字节数
//   - gamenet_frames_malformed_total：无法解码而丢弃的帧
//   - gamenet_subscribers_lagged_total：因落后被断开的连接
//   - gamenet_events_published_total：进入广播总线的出站事件
//
// # Fx 模块
//
//	app := fx.New(
//	    metrics.Module(),
//	    fx.Invoke(func(r metrics.Reporter, reg *prometheus.Registry) {
//	        http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//	    }),
//	)
package metrics
