// Package interfaces 定义 gamenet 的公共接口
//
// 接口与实现目录一一对应：
//   - transport.go  - 加密传输（Transport / Listener / Conn / Stream），
//     实现见 internal/core/transport/{quic,websocket}
//   - closecode.go  - 连接关闭码与原因
//
// 服务端只依赖这些接口，测试使用 tests/mocks 中的函数字段 mock 替换实现。
package interfaces
