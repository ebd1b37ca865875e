// Package eventbus 实现出站事件的广播总线
//
// 单一发布者、多订阅者。每个订阅者有独立的有界缓冲区，按发布顺序
// 恰好收到一次每个事件。缓冲区持续满超过 lag grace 的订阅者被终止，
// Err 返回 ErrLagged；其余订阅者不受影响。
//
// # 快速开始
//
//	bus := eventbus.New[envelope.Outbound](eventbus.WithBuffer(1024))
//
//	sub, _ := bus.Subscribe()
//	defer sub.Close()
//
//	go func() {
//	    for {
//	        out, err := sub.Next(ctx)
//	        if err != nil {
//	            return // ErrLagged / ErrClosed / ctx.Err()
//	        }
//	        // 处理 out
//	    }
//	}()
//
//	bus.Publish(ctx, envelope.To(protocol.Everyone(), protocol.PlayerJoined{}))
//
// # 并发安全
//
//   - 订阅表：Mutex 保护，发布时复制快照后释放锁
//   - 发布：publishMu 串行化，保证所有订阅者看到同一顺序
//   - 终止：closeOnce 防止重复，订阅者通道从不关闭，以 Done 通知
//
// # Fx 模块
//
// Module 按 broadcast 配置提供 *Bus[envelope.Outbound]，停止时关闭总线。
package eventbus
