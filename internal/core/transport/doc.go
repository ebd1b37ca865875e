// Package transport 选择并提供连接传输
//
// 传输把 QUIC 或 WebSocket 抽象为 pkgif.Transport：监听入站连接、
// 发起出站连接，每个连接承载一条由客户端打开的双向流。
//
// # 支持的传输
//
//   - quic (默认)：UDP 上的 QUIC，ALPN gamenet/1
//   - websocket：TLS 上的 WebSocket，升级路径由 network.websocket_path 指定
//
// # 使用示例
//
//	tr, err := transport.New(cfg)
//	l, err := tr.Listen(addr, tlsConf)
//	conn, err := l.Accept(ctx)
//	stream, err := conn.AcceptStream(ctx)
//
// # 关闭码
//
// 连接以 pkgif.CloseCode 关闭。QUIC 直接作为应用错误码，
// WebSocket 映射为 4000+code。
package transport
