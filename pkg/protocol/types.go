package protocol

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// ALPN QUIC 与 WebSocket 传输协商使用的应用协议名
const ALPN = "gamenet/1"

// PlayerID 玩家标识
type PlayerID uint64

// Unassigned 尚未分配身份的哨兵值，不会命中任何投递目标
const Unassigned PlayerID = 0

// IsAssigned 是否已分配身份
func (id PlayerID) IsAssigned() bool {
	return id != Unassigned
}

// String 返回字符串表示
func (id PlayerID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ============================================================================
//                              Command
// ============================================================================

// Command 客户端发往服务端的消息
//
// 封闭集合，只能是本包定义的变体。
type Command interface {
	isCommand()
	// Kind 返回变体名称，用于日志与指标
	Kind() string
}

// Join 加入请求
type Join struct {
	UUID PlayerID
	Hash uint64
}

func (Join) isCommand() {}

// Kind 返回变体名称
func (Join) Kind() string { return "join" }

// ============================================================================
//                              Event
// ============================================================================

// Event 服务端发往客户端的消息
//
// 封闭集合，只能是本包定义的变体。
type Event interface {
	isEvent()
	// Kind 返回变体名称，用于日志与指标
	Kind() string
}

// JoinAccept 加入确认
//
// IP 是被接受客户端的传输地址。连接的写循环看到与自己地址相同的
// JoinAccept 时，采用其中的 UUID 作为自己的 PlayerID。
type JoinAccept struct {
	IP   netip.AddrPort
	UUID PlayerID
}

func (JoinAccept) isEvent() {}

// Kind 返回变体名称
func (JoinAccept) Kind() string { return "join_accept" }

// PlayerJoined 有新玩家加入
type PlayerJoined struct{}

func (PlayerJoined) isEvent() {}

// Kind 返回变体名称
func (PlayerJoined) Kind() string { return "player_joined" }

// ============================================================================
//                              地址工具
// ============================================================================

// AddrPortOf 将 net.Addr 转换为规范化的 netip.AddrPort
//
// IPv4 映射的 IPv6 地址会被还原为 IPv4，保证同一客户端的地址在
// 服务端注册表和 JoinAccept.IP 中可以直接比较。
func AddrPortOf(addr net.Addr) (netip.AddrPort, error) {
	if addr == nil {
		return netip.AddrPort{}, fmt.Errorf("protocol: nil address")
	}
	var ap netip.AddrPort
	switch a := addr.(type) {
	case *net.UDPAddr:
		ap = a.AddrPort()
	case *net.TCPAddr:
		ap = a.AddrPort()
	default:
		parsed, err := netip.ParseAddrPort(addr.String())
		if err != nil {
			return netip.AddrPort{}, fmt.Errorf("protocol: parse address %q: %w", addr.String(), err)
		}
		ap = parsed
	}
	return Canonical(ap), nil
}

// Canonical 去除 IPv4 映射前缀
func Canonical(ap netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}
