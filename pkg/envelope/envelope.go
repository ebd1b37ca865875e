// Package envelope 定义跨越应用边界的消息信封
//
// Inbound 由连接的入站循环在解码成功后创建，只被应用读取一次；
// Outbound 由应用创建，每个连接的写循环各自按 Target 判断是否发送。
package envelope

import (
	"net/netip"

	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// Inbound 入站信封
type Inbound struct {
	// Source 客户端传输地址
	Source netip.AddrPort

	// Player 发送时该连接已知的玩家身份，未完成 Join 时为 Unassigned
	Player protocol.PlayerID

	// Command 解码后的命令
	Command protocol.Command
}

// Outbound 出站信封
type Outbound struct {
	// Target 投递目标
	Target protocol.Target

	// Event 待发送的事件
	Event protocol.Event
}

// To 构造出站信封
func To(target protocol.Target, ev protocol.Event) Outbound {
	return Outbound{Target: target, Event: ev}
}
