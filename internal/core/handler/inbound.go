package handler

import (
	"context"
	"fmt"

	"github.com/dep2p/go-gamenet/internal/core/framing"
	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// readLoop 读取帧、解码命令并交给应用
//
// 截断帧、超长帧与传输错误结束循环；无法解码的帧被丢弃后继续读取。
func (c *connState) readLoop(ctx context.Context) error {
	for {
		payload, err := framing.ReadFrame(c.stream, c.h.cfg.MaxFrameSize)
		if err != nil {
			return err
		}
		c.h.metrics.FrameReceived(framing.PrefixSize + len(payload))

		cmd, err := protocol.UnmarshalCommand(payload)
		if err != nil {
			c.h.metrics.FrameMalformed()
			logger.Warn("丢弃无法解码的帧", c.attrs("size", len(payload), "error", err)...)
			continue
		}
		logger.Trace("收到命令", c.attrs("kind", cmd.Kind())...)

		select {
		case c.h.commands <- c.inbound(cmd):
		case <-ctx.Done():
			return fmt.Errorf("handler: dispatch command: %w", context.Cause(ctx))
		}
	}
}
