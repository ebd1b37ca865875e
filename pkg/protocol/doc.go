// Package protocol 定义 gamenet 的应用消息模式
//
// # 消息分类
//
// 客户端与服务端之间只交换两类消息：
//
//   - Command: 客户端 → 服务端，目前只有 Join
//   - Event: 服务端 → 客户端，目前有 JoinAccept 与 PlayerJoined
//
// 两类消息都是封闭的变体集合。每个变体在负载中占用固定的字段号，
// 新增变体只会追加新的字段号，不会改变已有变体的编码：
//
//	message Command { oneof kind { Join join = 1; } }
//	message Join    { uint64 uuid = 1; uint64 hash = 2; }
//	message Event   { oneof kind { JoinAccept join_accept = 1; PlayerJoined player_joined = 2; } }
//	message JoinAccept   { string ip = 1; uint64 uuid = 2; }
//	message PlayerJoined { }
//
// 负载使用 protobuf 线格式（protowire）编码。解码时跳过未知字段；
// 没有任何已知变体字段的负载返回 ErrMalformedPayload。
//
// # 线上字节
//
// 负载长度随字段值变化，不是定长结构。Join{UUID: 7, Hash: 42} 的负载为 6 字节，
// 加上 4 字节大端长度前缀后整帧为：
//
//	00 00 00 06  0a 04 08 07 10 2a
//	|  长度=6 |  |  | uuid| hash|
//	             |  Join 子消息长度 4
//	             Command 字段 1（Join），wire type 2
//
// JoinAccept{IP: 127.0.0.1:5000, UUID: 7} 编码为
//
//	0a 12 0a 0e "127.0.0.1:5000" 10 07
//
// 客户端实现应按字段号与 wire type 解码，而不是按固定偏移读取。
//
// # 投递目标
//
// 每个出站 Event 附带一个 Target，由各个连接用自己当前的 PlayerID 独立判断：
//
//	protocol.Everyone()
//	protocol.One(7)
//	protocol.Group(1, 3)
//	protocol.AllButOne(7)
//	protocol.AllBut(1, 3)
//
// PlayerID 0（Unassigned）表示尚未完成 Join 握手，不会命中任何目标。
package protocol
