package handler

import (
	"context"
	"fmt"

	"github.com/dep2p/go-gamenet/internal/core/eventbus"
	"github.com/dep2p/go-gamenet/internal/core/framing"
	"github.com/dep2p/go-gamenet/pkg/envelope"
	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// writeLoop 从订阅中取事件，按 Target 过滤后写出
//
// 只有在确实需要写出一帧时才等待流。
func (c *connState) writeLoop(ctx context.Context, sub *eventbus.Subscription[envelope.Outbound]) error {
	for {
		out, err := sub.Next(ctx)
		if err != nil {
			return err
		}

		c.learnIdentity(out.Event)

		if !out.Target.IsRecipient(c.identity()) {
			continue
		}

		frame, err := framing.EncodeEvent(out.Event)
		if err != nil {
			logger.Warn("无法编码事件，已跳过", c.attrs("kind", kindOf(out.Event), "error", err)...)
			continue
		}
		stream, err := c.waitStream(ctx)
		if err != nil {
			return err
		}
		if _, err := stream.Write(frame); err != nil {
			return fmt.Errorf("handler: write frame: %w", err)
		}
		c.h.metrics.FrameSent(len(frame))
		logger.Trace("已发送事件", c.attrs("kind", out.Event.Kind(), "target", out.Target)...)
	}
}

// learnIdentity 看到发给本连接地址的 JoinAccept 时采用其 UUID
func (c *connState) learnIdentity(ev protocol.Event) {
	ja, ok := ev.(protocol.JoinAccept)
	if !ok || protocol.Canonical(ja.IP) != c.addr {
		return
	}
	if prev := protocol.PlayerID(c.player.Swap(uint64(ja.UUID))); prev != ja.UUID {
		logger.Debug("连接身份已确定", c.attrs("player", ja.UUID, "previous", prev)...)
	}
}

func kindOf(ev protocol.Event) string {
	if ev == nil {
		return "<nil>"
	}
	return ev.Kind()
}
