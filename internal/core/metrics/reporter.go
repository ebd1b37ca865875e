package metrics

import pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"

// Reporter 指标上报接口
type Reporter interface {
	// ConnOpened 记录一个新连接
	ConnOpened()

	// ConnClosed 记录连接以 code 关闭
	ConnClosed(code pkgif.CloseCode)

	// FrameReceived 记录收到一帧，n 含长度前缀
	FrameReceived(n int)

	// FrameSent 记录发出一帧，n 含长度前缀
	FrameSent(n int)

	// FrameMalformed 记录一帧解码失败
	FrameMalformed()

	// SubscriberLagged 记录一个连接因落后被断开
	SubscriberLagged()

	// EventPublished 记录一个出站事件进入广播总线
	EventPublished()
}

// Nop 不记录任何指标
type Nop struct{}

var _ Reporter = Nop{}

func (Nop) ConnOpened()                {}
func (Nop) ConnClosed(pkgif.CloseCode) {}
func (Nop) FrameReceived(int)          {}
func (Nop) FrameSent(int)              {}
func (Nop) FrameMalformed()            {}
func (Nop) SubscriberLagged()          {}
func (Nop) EventPublished()            {}
