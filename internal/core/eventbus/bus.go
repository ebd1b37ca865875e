package eventbus

import (
	"context"
	"slices"
	"sync"

	"github.com/dep2p/go-gamenet/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// Bus 广播总线
type Bus[T any] struct {
	settings settings

	mu     sync.Mutex
	subs   []*Subscription[T]
	closed bool

	// publishMu 串行化发布
	publishMu sync.Mutex
}

// New 创建总线
func New[T any](opts ...Option) *Bus[T] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &Bus[T]{settings: s}
}

// Subscribe 订阅
//
// 只收到订阅之后发布的事件。
func (b *Bus[T]) Subscribe() (*Subscription[T], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	sub := newSubscription(b, b.settings.buffer)
	b.subs = append(b.subs, sub)
	return sub, nil
}

// Len 返回订阅者数量
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish 把 v 投递给每个订阅者
//
// 缓冲区已满的订阅者最多等待 lag grace，超时即以 ErrLagged 终止。
// 返回成功投递的订阅者数量。ctx 结束时停止投递并返回 ctx.Err()。
func (b *Bus[T]) Publish(ctx context.Context, v T) (int, error) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0, ErrClosed
	}
	subs := slices.Clone(b.subs)
	b.mu.Unlock()

	delivered := 0
	for _, sub := range subs {
		ok, err := b.deliver(ctx, sub, v)
		if err != nil {
			return delivered, err
		}
		if ok {
			delivered++
		}
	}
	return delivered, nil
}

// deliver 投递给单个订阅者
func (b *Bus[T]) deliver(ctx context.Context, sub *Subscription[T], v T) (bool, error) {
	select {
	case <-sub.done:
		return false, nil
	default:
	}

	select {
	case sub.out <- v:
		return true, nil
	default:
	}

	if b.settings.lagGrace <= 0 {
		b.lagged(sub)
		return false, nil
	}

	timer := b.settings.clock.Timer(b.settings.lagGrace)
	defer timer.Stop()

	select {
	case sub.out <- v:
		return true, nil
	case <-timer.C:
		b.lagged(sub)
		return false, nil
	case <-sub.done:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (b *Bus[T]) lagged(sub *Subscription[T]) {
	if sub.terminate(ErrLagged) {
		logger.Warn("订阅者落后，已移除", "buffer", cap(sub.out))
	}
}

// remove 从订阅表移除
func (b *Bus[T]) remove(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i := slices.Index(b.subs, sub); i >= 0 {
		b.subs = slices.Delete(b.subs, i, i+1)
	}
}

// Close 关闭总线，终止所有订阅者
func (b *Bus[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.terminate(ErrClosed)
	}
	return nil
}
