package gamenet

import (
	"github.com/dep2p/go-gamenet/pkg/envelope"
	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// Inbound 入站信封：命令 + 来源地址 + 已知身份
	Inbound = envelope.Inbound

	// Outbound 出站信封：事件 + 投递目标
	Outbound = envelope.Outbound

	// PlayerID 玩家标识，0 为未分配
	PlayerID = protocol.PlayerID

	// Command 客户端发往服务端的消息
	Command = protocol.Command

	// Event 服务端发往客户端的消息
	Event = protocol.Event

	// Target 事件投递目标
	Target = protocol.Target

	// CloseCode 连接关闭码
	CloseCode = pkgif.CloseCode
)

// 关闭码
const (
	CodeHandlerEnded      = pkgif.CodeHandlerEnded
	CodeShutdown          = pkgif.CodeShutdown
	CodeLagged            = pkgif.CodeLagged
	CodeProtocolViolation = pkgif.CodeProtocolViolation
)
