package main

import (
	"context"

	"github.com/dep2p/go-gamenet"
	"github.com/dep2p/go-gamenet/pkg/envelope"
	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// sendFunc 出站发送函数，签名与 Server.Send 一致
type sendFunc func(context.Context, gamenet.Outbound) error

// runGame 参考游戏循环
//
// 代替真正的游戏逻辑层：处理 Join，回复加入者并通知其他玩家。
// ctx 结束时返回 nil。
func runGame(ctx context.Context, commands <-chan gamenet.Inbound, send sendFunc) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case in := <-commands:
			for _, out := range respond(in) {
				if err := send(ctx, out); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
			}
		}
	}
}

// respond 计算一条命令的回复
func respond(in gamenet.Inbound) []gamenet.Outbound {
	switch cmd := in.Command.(type) {
	case protocol.Join:
		if !cmd.UUID.IsAssigned() {
			logger.Warn("忽略未分配身份的 Join", "addr", in.Source)
			return nil
		}
		logger.Info("玩家加入", "addr", in.Source, "player", cmd.UUID)
		return []gamenet.Outbound{
			envelope.To(protocol.One(cmd.UUID), protocol.JoinAccept{IP: in.Source, UUID: cmd.UUID}),
			envelope.To(protocol.AllButOne(cmd.UUID), protocol.PlayerJoined{}),
		}
	default:
		logger.Debug("忽略命令", "command", in.Command, "addr", in.Source)
		return nil
	}
}
