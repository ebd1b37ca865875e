// Package handler 实现连接处理器
//
// Handler 持有监听端点，接受客户端连接，为每个连接运行一对读写任务，
// 并把应用的出站事件扇出到所有在线连接。
//
// # 数据流
//
//	入站：stream → framing.ReadFrame → protocol.UnmarshalCommand → Commands()
//	出站：Send() → 扇入 → eventbus → 每连接写循环 → Target 过滤 → framing → stream
//
// # 连接生命周期
//
// 接受连接后依次：注册到 registry、订阅广播总线、接受客户端打开的第一条
// 双向流、启动读写任务。任一任务结束即取消共享 context，从 registry 移除，
// 并以关闭码关闭连接：
//
//	CodeHandlerEnded       读写任务结束或传输错误
//	CodeShutdown           Shutdown
//	CodeLagged             写循环跟不上广播
//	CodeProtocolViolation  帧超过长度上限
//
// # 身份
//
// 写循环初始身份为 Unassigned。看到 IP 等于本连接地址的 JoinAccept 时，
// 在判断该事件 Target 之前采用其 UUID；读循环把当前身份写入入站信封。
//
// # 生命周期
//
//	Stopped → Start() → Listening → Shutdown() → Stopped
//
// Handler 可重复启动。Commands 与 Send 使用的通道在 Handler 整个生命周期内有效。
package handler
