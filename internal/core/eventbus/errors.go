package eventbus

import "errors"

var (
	// ErrClosed 总线已关闭
	ErrClosed = errors.New("eventbus: closed")

	// ErrLagged 订阅者跟不上发布速度，已被移除
	ErrLagged = errors.New("eventbus: subscriber lagged")

	// ErrUnsubscribed 订阅者主动取消订阅
	ErrUnsubscribed = errors.New("eventbus: unsubscribed")
)
