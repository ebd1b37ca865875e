// Package gamenet 提供多人游戏服务端的传输与消息分发核心
//
// gamenet 接受大量客户端的加密连接（QUIC，或 WebSocket over TLS），
// 把字节流解析为类型化的 Command 交给应用，并把应用产生的 Event
// 按 Target 扇出给正确的客户端子集。
//
// # 快速开始
//
//	import "github.com/dep2p/go-gamenet"
//
//	srv, err := gamenet.New(
//	    gamenet.WithConfig(cfg),
//	    gamenet.WithCertificate(material),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	for in := range srv.Commands() {
//	    switch cmd := in.Command.(type) {
//	    case protocol.Join:
//	        ja := protocol.JoinAccept{IP: in.Source, UUID: cmd.UUID}
//	        _ = srv.Send(ctx, envelope.To(protocol.One(cmd.UUID), ja))
//	    }
//	}
//
// # 数据流
//
//	应用 ─Send→ 出站队列 → 扇入 → 广播总线 → 每连接写循环（Target 过滤 → 帧编码 → 流）
//	流 → 帧解码 → Command 解码 → Inbound 信封 ─Commands→ 应用
//
// # 身份
//
// 连接的玩家身份初始为 Unassigned（0），不会命中任何 Target。
// 写循环看到 IP 等于自身地址的 JoinAccept 时采用其中的 UUID，
// 之后该连接的 Inbound 信封也带上这个身份。
//
// # 关闭码
//
// 服务端关闭连接时带上应用错误码（WebSocket 为 4000 + 码）：
//
//	CodeHandlerEnded      0      连接任务正常结束或传输错误
//	CodeShutdown          0x100  服务关闭
//	CodeLagged            0x101  出站缓冲溢出
//	CodeProtocolViolation 0x102  帧超过上限
//
// # 文件组织
//
//   - gamenet.go          版本信息
//   - server.go           Server 门面与访问器
//   - server_lifecycle.go Start / Close
//   - options.go          用户选项
//   - fx.go               Fx 模块组装
//   - types.go            公共类型别名
//   - errors.go           公共错误
package gamenet
