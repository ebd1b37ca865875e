// Package mocks 提供测试用的传输层 Mock
//
// # 核心 Mock
//
//   - MockConn: 模拟 interfaces.Conn，记录关闭码，Done 在关闭后关闭
//   - MockStream: 模拟 interfaces.Stream，读写可由函数注入
//
// # 设计原则
//
//  1. 函数式注入: 通过 XxxFunc 字段覆盖默认行为
//  2. 调用记录: 关闭调用按顺序记录，可并发读取
//
// # 使用示例
//
//	server, client := net.Pipe()
//	conn := mocks.NewMockConn(netip.MustParseAddrPort("10.0.0.1:5000"), server)
//	defer client.Close()
//
//	// ... 让被测代码使用 conn ...
//
//	calls := conn.CloseCalls()
//	require.Len(t, calls, 1)
//	assert.Equal(t, interfaces.CodeShutdown, calls[0].Code)
package mocks
