package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout 测试中等待网络事件的默认超时
const DefaultTimeout = 5 * time.Second

// WaitForCondition 等待条件满足或超时
//
// 返回：条件是否满足（超时返回 false）
func WaitForCondition(t *testing.T, timeout time.Duration, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 立即检查一次
	if condition() {
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// Eventually 在指定时间内每 5ms 重试条件检查，超时则 fail 测试
//
// 示例:
//
//	testutil.Eventually(t, time.Second, func() bool {
//	    return srv.ClientCount() == 0
//	}, "连接应被移除")
func Eventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	if !WaitForCondition(t, timeout, 5*time.Millisecond, condition) {
		t.Fatalf("等待超时: %s", msg)
	}
}

// Recv 从通道读取一个值，超时则 fail 测试
//
// 示例:
//
//	in := testutil.Recv(t, srv.Commands(), testutil.DefaultTimeout)
func Recv[T any](t *testing.T, ch <-chan T, timeout time.Duration) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(timeout):
		t.Fatalf("等待通道超时 (%s)", timeout)
		var zero T
		return zero
	}
}

// Async 在 goroutine 中执行 fn，返回只接收一次结果的通道
//
// 用于给阻塞调用（如 client.Receive）加上超时。
func Async[T any](fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		v, err := fn()
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}

// Result 异步调用的结果
type Result[T any] struct {
	Value T
	Err   error
}
