package interfaces

import "fmt"

// CloseCode 连接关闭码
//
// QUIC 传输中作为应用错误码；WebSocket 传输中映射到 4000 起的私有关闭码。
type CloseCode uint64

// 关闭码
const (
	// CodeHandlerEnded 连接的读写任务之一结束
	CodeHandlerEnded CloseCode = 0
	// CodeShutdown 服务端关闭
	CodeShutdown CloseCode = 0x100
	// CodeLagged 出站订阅者跟不上广播
	CodeLagged CloseCode = 0x101
	// CodeProtocolViolation 帧超过长度上限
	CodeProtocolViolation CloseCode = 0x102
)

// 关闭原因
const (
	ReasonHandlerEnded      = "connection handler ended"
	ReasonShutdown          = "shutting down"
	ReasonLagged            = "outbound lagged"
	ReasonProtocolViolation = "protocol violation"
)

// Reason 返回关闭码对应的标准原因
func (c CloseCode) Reason() string {
	switch c {
	case CodeHandlerEnded:
		return ReasonHandlerEnded
	case CodeShutdown:
		return ReasonShutdown
	case CodeLagged:
		return ReasonLagged
	case CodeProtocolViolation:
		return ReasonProtocolViolation
	default:
		return fmt.Sprintf("close code 0x%x", uint64(c))
	}
}

// String 返回字符串表示，用于日志和指标标签
func (c CloseCode) String() string {
	switch c {
	case CodeHandlerEnded:
		return "handler_ended"
	case CodeShutdown:
		return "shutdown"
	case CodeLagged:
		return "lagged"
	case CodeProtocolViolation:
		return "protocol_violation"
	default:
		return fmt.Sprintf("0x%x", uint64(c))
	}
}
