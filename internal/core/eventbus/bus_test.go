package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Bus 测试
// ============================================================================

// TestBus_FanOutInOrder 测试每个订阅者按顺序恰好收到一次
func TestBus_FanOutInOrder(t *testing.T) {
	bus := New[int](WithBuffer(16))
	defer bus.Close()

	subs := make([]*Subscription[int], 3)
	for i := range subs {
		sub, err := bus.Subscribe()
		require.NoError(t, err)
		subs[i] = sub
	}
	assert.Equal(t, 3, bus.Len())

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		n, err := bus.Publish(ctx, i)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	}

	for _, sub := range subs {
		for i := 0; i < 10; i++ {
			v, err := sub.Next(ctx)
			require.NoError(t, err)
			assert.Equal(t, i, v)
		}
		select {
		case v := <-sub.C():
			t.Fatalf("多余事件 %d", v)
		default:
		}
	}

	t.Log("✅ 广播顺序测试通过")
}

// TestBus_SubscribeAfterPublish 测试只收到订阅后的事件
func TestBus_SubscribeAfterPublish(t *testing.T) {
	bus := New[string]()
	defer bus.Close()

	n, err := bus.Publish(context.Background(), "early")
	require.NoError(t, err)
	assert.Zero(t, n)

	sub, err := bus.Subscribe()
	require.NoError(t, err)
	_, err = bus.Publish(context.Background(), "late")
	require.NoError(t, err)

	v, err := sub.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", v)
}

// TestBus_LaggedImmediately 测试 lag grace 为 0 时缓冲满立即移除
func TestBus_LaggedImmediately(t *testing.T) {
	bus := New[int](WithBuffer(2))
	defer bus.Close()

	slow, err := bus.Subscribe()
	require.NoError(t, err)
	fast, err := bus.Subscribe()
	require.NoError(t, err)

	ctx := context.Background()
	received := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		_, err := bus.Publish(ctx, i)
		require.NoError(t, err)
		v, err := fast.Next(ctx)
		require.NoError(t, err)
		received = append(received, v)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, received, "跟得上的订阅者不丢事件")
	assert.ErrorIs(t, slow.Err(), ErrLagged)
	assert.Nil(t, fast.Err())
	assert.Equal(t, 1, bus.Len())

	_, err = slow.Next(ctx)
	assert.ErrorIs(t, err, ErrLagged)

	t.Log("✅ 落后订阅者移除测试通过")
}

// TestBus_LagGrace 测试 lag grace 内追上的订阅者不被移除
func TestBus_LagGrace(t *testing.T) {
	mock := clock.NewMock()
	bus := New[int](WithBuffer(1), WithLagGrace(time.Second), WithClock(mock))
	defer bus.Close()

	sub, err := bus.Subscribe()
	require.NoError(t, err)

	ctx := context.Background()
	_, err = bus.Publish(ctx, 1)
	require.NoError(t, err)

	published := make(chan error, 1)
	go func() {
		_, err := bus.Publish(ctx, 2)
		published <- err
	}()

	// 在 grace 内消费，发布得以完成
	v, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	select {
	case err := <-published:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("发布未完成")
	}

	v, err = sub.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Nil(t, sub.Err())
}

// TestBus_LagGraceExpires 测试 grace 过期后移除
func TestBus_LagGraceExpires(t *testing.T) {
	mock := clock.NewMock()
	bus := New[int](WithBuffer(1), WithLagGrace(time.Second), WithClock(mock))
	defer bus.Close()

	sub, err := bus.Subscribe()
	require.NoError(t, err)

	ctx := context.Background()
	_, err = bus.Publish(ctx, 1)
	require.NoError(t, err)

	published := make(chan int, 1)
	go func() {
		n, _ := bus.Publish(ctx, 2)
		published <- n
	}()

	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		return sub.Err() != nil
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, sub.Err(), ErrLagged)
	select {
	case n := <-published:
		assert.Zero(t, n)
	case <-time.After(time.Second):
		t.Fatal("发布未返回")
	}
}

// TestBus_PublishContextCancel 测试等待期间 ctx 结束
func TestBus_PublishContextCancel(t *testing.T) {
	bus := New[int](WithBuffer(1), WithLagGrace(time.Minute))
	defer bus.Close()

	sub, err := bus.Subscribe()
	require.NoError(t, err)
	_, err = bus.Publish(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = bus.Publish(ctx, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, sub.Err(), "ctx 结束不算落后")
}

// TestBus_Close 测试关闭总线
func TestBus_Close(t *testing.T) {
	bus := New[int]()
	sub, err := bus.Subscribe()
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	<-sub.Done()
	assert.ErrorIs(t, sub.Err(), ErrClosed)
	assert.Zero(t, bus.Len())

	_, err = bus.Subscribe()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = bus.Publish(context.Background(), 1)
	assert.ErrorIs(t, err, ErrClosed)
}

// TestBus_ConcurrentSubscribers 测试并发订阅与发布
func TestBus_ConcurrentSubscribers(t *testing.T) {
	bus := New[int](WithBuffer(100))
	defer bus.Close()

	const subscribers, events = 8, 100
	var ready, wg sync.WaitGroup
	ready.Add(subscribers)
	wg.Add(subscribers)

	results := make([][]int, subscribers)
	for i := 0; i < subscribers; i++ {
		sub, err := bus.Subscribe()
		require.NoError(t, err)
		go func(i int, sub *Subscription[int]) {
			defer wg.Done()
			ready.Done()
			for len(results[i]) < events {
				v, err := sub.Next(context.Background())
				if err != nil {
					return
				}
				results[i] = append(results[i], v)
			}
		}(i, sub)
	}
	ready.Wait()

	for i := 0; i < events; i++ {
		_, err := bus.Publish(context.Background(), i)
		require.NoError(t, err)
	}
	wg.Wait()

	for i := range results {
		require.Len(t, results[i], events)
		for j, v := range results[i] {
			assert.Equal(t, j, v)
		}
	}
}
