package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
)

// Namespace 指标命名空间
const Namespace = "gamenet"

// Collector 基于 Prometheus 的 Reporter
type Collector struct {
	connsActive    prometheus.Gauge
	connsAccepted  prometheus.Counter
	connsClosed    *prometheus.CounterVec
	framesIn       prometheus.Counter
	framesOut      prometheus.Counter
	bytesIn        prometheus.Counter
	bytesOut       prometheus.Counter
	framesBad      prometheus.Counter
	lagged         prometheus.Counter
	eventsOutbound prometheus.Counter
}

var _ Reporter = (*Collector)(nil)

// NewCollector 在 reg 上注册指标
//
// 同一 reg 上重复注册会 panic，与 promauto 行为一致。
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		connsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "connections_active",
			Help:      "Number of currently registered client connections",
		}),
		connsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "connections_accepted_total",
			Help:      "Total number of accepted client connections",
		}),
		connsClosed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "connections_closed_total",
			Help:      "Total number of closed client connections by close code",
		}, []string{"code"}),
		framesIn: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "frames_received_total",
			Help:      "Total number of frames read from clients",
		}),
		framesOut: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "frames_sent_total",
			Help:      "Total number of frames written to clients",
		}),
		bytesIn: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "bytes_received_total",
			Help:      "Total number of frame bytes read from clients, including length prefixes",
		}),
		bytesOut: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "bytes_sent_total",
			Help:      "Total number of frame bytes written to clients, including length prefixes",
		}),
		framesBad: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "frames_malformed_total",
			Help:      "Total number of frames dropped because the payload could not be decoded",
		}),
		lagged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "subscribers_lagged_total",
			Help:      "Total number of connections dropped for falling behind the broadcast",
		}),
		eventsOutbound: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "events_published_total",
			Help:      "Total number of outbound events published to the broadcast bus",
		}),
	}
}

// ConnOpened 实现 Reporter
func (c *Collector) ConnOpened() {
	c.connsAccepted.Inc()
	c.connsActive.Inc()
}

// ConnClosed 实现 Reporter
func (c *Collector) ConnClosed(code pkgif.CloseCode) {
	c.connsActive.Dec()
	c.connsClosed.WithLabelValues(code.String()).Inc()
}

// FrameReceived 实现 Reporter
func (c *Collector) FrameReceived(n int) {
	c.framesIn.Inc()
	c.bytesIn.Add(float64(n))
}

// FrameSent 实现 Reporter
func (c *Collector) FrameSent(n int) {
	c.framesOut.Inc()
	c.bytesOut.Add(float64(n))
}

// FrameMalformed 实现 Reporter
func (c *Collector) FrameMalformed() {
	c.framesBad.Inc()
}

// SubscriberLagged 实现 Reporter
func (c *Collector) SubscriberLagged() {
	c.lagged.Inc()
}

// EventPublished 实现 Reporter
func (c *Collector) EventPublished() {
	c.eventsOutbound.Inc()
}
