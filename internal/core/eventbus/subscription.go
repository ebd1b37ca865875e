package eventbus

import (
	"context"
	"sync"
)

// Subscription 订阅
//
// 事件通道从不关闭，终止通过 Done 通知，原因由 Err 给出。
type Subscription[T any] struct {
	bus *Bus[T]
	out chan T

	done      chan struct{}
	closeOnce sync.Once
	err       error
}

func newSubscription[T any](b *Bus[T], buffer int) *Subscription[T] {
	return &Subscription[T]{
		bus:  b,
		out:  make(chan T, buffer),
		done: make(chan struct{}),
	}
}

// C 返回事件通道
func (s *Subscription[T]) C() <-chan T {
	return s.out
}

// Done 订阅终止后关闭
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Err 返回终止原因，未终止时为 nil
func (s *Subscription[T]) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Next 取下一个事件
//
// 订阅终止后立即返回终止原因，缓冲中剩余的事件被丢弃。
func (s *Subscription[T]) Next(ctx context.Context) (T, error) {
	var zero T

	select {
	case <-s.done:
		return zero, s.err
	default:
	}

	select {
	case v := <-s.out:
		return v, nil
	case <-s.done:
		return zero, s.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close 取消订阅，可重复调用
func (s *Subscription[T]) Close() error {
	s.terminate(ErrUnsubscribed)
	return nil
}

// terminate 首次调用时记录原因并移除，返回是否本次终止
func (s *Subscription[T]) terminate(reason error) bool {
	first := false
	s.closeOnce.Do(func() {
		first = true
		s.err = reason
		close(s.done)
		s.bus.remove(s)
	})
	return first
}
