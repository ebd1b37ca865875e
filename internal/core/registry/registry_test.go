package registry

import (
	"errors"
	"fmt"
	"net/netip"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
	"github.com/dep2p/go-gamenet/tests/mocks"
)

func addr(port uint16) netip.AddrPort {
	return netip.AddrPortFrom(netip.MustParseAddr("10.0.0.1"), port)
}

// TestRegistry_InsertGetRemove 测试基本操作
func TestRegistry_InsertGetRemove(t *testing.T) {
	r := New()
	a := mocks.NewMockConn(addr(1), nil)

	assert.Nil(t, r.Insert(addr(1), a))
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(addr(1))
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = r.Get(addr(2))
	assert.False(t, ok)

	removed, ok := r.Remove(addr(1))
	require.True(t, ok)
	assert.Same(t, a, removed)
	assert.Equal(t, 0, r.Len())
	assert.False(t, a.Closed(), "Remove 不关闭连接")

	t.Log("✅ Insert/Get/Remove 测试通过")
}

// TestRegistry_RemoveAbsent 测试移除不存在的地址
func TestRegistry_RemoveAbsent(t *testing.T) {
	r := New()

	_, ok := r.Remove(addr(9))
	assert.False(t, ok)

	r.Insert(addr(9), mocks.NewMockConn(addr(9), nil))
	_, ok = r.Remove(addr(9))
	assert.True(t, ok)
	_, ok = r.Remove(addr(9))
	assert.False(t, ok, "重复移除是安全的")
}

// TestRegistry_InsertReplaces 测试同一地址替换
func TestRegistry_InsertReplaces(t *testing.T) {
	r := New()
	a := mocks.NewMockConn(addr(1), nil)
	b := mocks.NewMockConn(addr(1), nil)

	r.Insert(addr(1), a)
	assert.Same(t, a, r.Insert(addr(1), b))
	assert.Equal(t, 1, r.Len())

	assert.False(t, r.RemoveIf(addr(1), a), "旧连接不能移除新条目")
	assert.True(t, r.RemoveIf(addr(1), b))
	assert.False(t, r.RemoveIf(addr(1), b))
}

// TestRegistry_Snapshot 测试快照
func TestRegistry_Snapshot(t *testing.T) {
	r := New()
	for _, p := range []uint16{30, 10, 20} {
		r.Insert(addr(p), mocks.NewMockConn(addr(p), nil))
	}

	snap := r.Snapshot()
	assert.Equal(t, []netip.AddrPort{addr(10), addr(20), addr(30)}, snap)

	r.Remove(addr(20))
	assert.Len(t, snap, 3, "快照不随后续修改变化")
	assert.Len(t, r.Snapshot(), 2)
}

// TestRegistry_CloseAll 测试关闭全部连接
func TestRegistry_CloseAll(t *testing.T) {
	r := New()
	conns := make([]*mocks.MockConn, 0, 5)
	for p := uint16(1); p <= 5; p++ {
		c := mocks.NewMockConn(addr(p), nil)
		conns = append(conns, c)
		r.Insert(addr(p), c)
	}

	n, err := r.CloseAll(pkgif.CodeShutdown, pkgif.ReasonShutdown)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Empty(t, r.Snapshot())
	assert.Equal(t, 0, r.Len())

	for _, c := range conns {
		calls := c.CloseCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, pkgif.CodeShutdown, calls[0].Code)
		assert.Equal(t, "shutting down", calls[0].Reason)
	}

	n, err = r.CloseAll(pkgif.CodeShutdown, pkgif.ReasonShutdown)
	require.NoError(t, err)
	assert.Zero(t, n)

	t.Log("✅ CloseAll 测试通过")
}

// TestRegistry_CloseAllErrors 测试关闭错误聚合
func TestRegistry_CloseAllErrors(t *testing.T) {
	r := New()
	boom := errors.New("boom")
	for p := uint16(1); p <= 2; p++ {
		c := mocks.NewMockConn(addr(p), nil)
		c.CloseWithErrorFunc = func(pkgif.CloseCode, string) error { return boom }
		r.Insert(addr(p), c)
	}
	r.Insert(addr(3), mocks.NewMockConn(addr(3), nil))

	n, err := r.CloseAll(pkgif.CodeShutdown, pkgif.ReasonShutdown)
	assert.Equal(t, 3, n)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, r.Len(), "出错的连接也被移除")
}

// TestRegistry_CloseAllNoLockDuringClose 测试关闭时不持锁
func TestRegistry_CloseAllNoLockDuringClose(t *testing.T) {
	r := New()
	c := mocks.NewMockConn(addr(1), nil)
	c.CloseWithErrorFunc = func(pkgif.CloseCode, string) error {
		// 关闭回调中访问注册表不会死锁
		_, _ = r.Remove(addr(1))
		_ = r.Len()
		return nil
	}
	r.Insert(addr(1), c)

	n, err := r.CloseAll(pkgif.CodeShutdown, pkgif.ReasonShutdown)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// TestRegistry_Concurrent 测试并发访问
func TestRegistry_Concurrent(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				a := netip.MustParseAddrPort(fmt.Sprintf("10.0.%d.%d:%d", w, i%250, 1000+i))
				r.Insert(a, mocks.NewMockConn(a, nil))
				_ = r.Snapshot()
				if i%2 == 0 {
					r.Remove(a)
				}
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 8*50, r.Len())
}

// TestModule 测试停止时关闭残留连接
func TestModule(t *testing.T) {
	var r *Registry
	app := fxtest.New(t, Module(), fx.Populate(&r))
	app.RequireStart()

	c := mocks.NewMockConn(addr(1), nil)
	r.Insert(addr(1), c)
	app.RequireStop()

	assert.True(t, c.Closed())
	assert.Equal(t, 0, r.Len())
}
