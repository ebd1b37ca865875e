package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
)

// TestCollector_Connections 测试连接指标
func TestCollector_Connections(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.ConnOpened()
	c.ConnOpened()
	c.ConnClosed(pkgif.CodeLagged)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.connsAccepted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.connsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.connsClosed.WithLabelValues("lagged")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.connsClosed.WithLabelValues("shutdown")))

	t.Log("✅ 连接指标测试通过")
}

// TestCollector_Frames 测试帧指标
func TestCollector_Frames(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.FrameReceived(10)
	c.FrameReceived(6)
	c.FrameSent(20)
	c.FrameMalformed()
	c.SubscriberLagged()
	c.EventPublished()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.framesIn))
	assert.Equal(t, 16.0, testutil.ToFloat64(c.bytesIn))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.framesOut))
	assert.Equal(t, 20.0, testutil.ToFloat64(c.bytesOut))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.framesBad))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lagged))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsOutbound))
}

// TestCollector_Exposition 测试导出格式
func TestCollector_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ConnOpened()

	expected := `
# HELP gamenet_connections_active Number of currently registered client connections
# TYPE gamenet_connections_active gauge
gamenet_connections_active 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gamenet_connections_active"))
}

// TestCollector_DuplicateRegistration 测试重复注册
func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}

// TestNop 测试空实现
func TestNop(t *testing.T) {
	var r Reporter = Nop{}
	assert.NotPanics(t, func() {
		r.ConnOpened()
		r.ConnClosed(pkgif.CodeShutdown)
		r.FrameReceived(1)
		r.FrameSent(1)
		r.FrameMalformed()
		r.SubscriberLagged()
		r.EventPublished()
	})
}

// TestModule 测试 Fx 模块
func TestModule(t *testing.T) {
	var (
		r   Reporter
		reg *prometheus.Registry
	)
	app := fxtest.New(t, Module(), fx.Populate(&r, &reg))
	app.RequireStart()
	defer app.RequireStop()

	r.ConnOpened()
	count, err := testutil.GatherAndCount(reg, "gamenet_connections_accepted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "go_goroutines")
}
