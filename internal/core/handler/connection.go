package handler

import (
	"context"
	"errors"
	"net/netip"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-gamenet/internal/core/eventbus"
	"github.com/dep2p/go-gamenet/internal/core/framing"
	"github.com/dep2p/go-gamenet/pkg/envelope"
	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// connState 一个连接上读写任务共享的状态
type connState struct {
	h       *Handler
	conn    pkgif.Conn
	addr    netip.AddrPort
	session string

	// stream 在 ready 关闭后可用
	stream pkgif.Stream
	ready  chan struct{}

	// player 写循环学到的身份，读循环写入入站信封
	player atomic.Uint64
}

func (c *connState) identity() protocol.PlayerID {
	return protocol.PlayerID(c.player.Load())
}

// setStream 记录已接受的流并唤醒等待写出的写循环
func (c *connState) setStream(s pkgif.Stream) {
	c.stream = s
	close(c.ready)
}

// waitStream 等待客户端打开流
func (c *connState) waitStream(ctx context.Context) (pkgif.Stream, error) {
	select {
	case <-c.ready:
		return c.stream, nil
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}
}

// attrs 连接的日志属性
func (c *connState) attrs(args ...any) []any {
	return append([]any{"addr", c.addr, "session", c.session}, args...)
}

// handleConnection 处理一个已接受的连接直到其结束
func (h *Handler) handleConnection(ctx context.Context, conn pkgif.Conn) {
	c := &connState{
		h:       h,
		conn:    conn,
		addr:    protocol.Canonical(conn.RemoteAddr()),
		session: uuid.NewString(),
		ready:   make(chan struct{}),
	}

	if old := h.registry.Insert(c.addr, conn); old != nil {
		_ = old.CloseWithError(pkgif.CodeHandlerEnded, pkgif.ReasonHandlerEnded)
	}
	h.metrics.ConnOpened()
	logger.Info("客户端已连接", c.attrs()...)

	sub, err := h.bus.Subscribe()
	if err != nil {
		c.finish(ctx, err)
		return
	}
	defer sub.Close()

	g, gctx := errgroup.WithContext(ctx)

	// 任一任务结束后关闭连接，解除另一任务的阻塞 I/O
	g.Go(func() error {
		<-gctx.Done()
		c.finish(ctx, context.Cause(gctx))
		return nil
	})

	// 写循环可能阻塞在 Write 中，订阅终止需要单独观察
	g.Go(func() error {
		select {
		case <-sub.Done():
			return sub.Err()
		case <-gctx.Done():
			return nil
		}
	})

	// 写循环立即消费订阅，尚未打开流的连接不会因此落后
	g.Go(func() error { return ended(c.writeLoop(gctx, sub)) })

	// QUIC 的流在客户端写入第一个字节后才可接受
	g.Go(func() error {
		stream, err := conn.AcceptStream(gctx)
		if err != nil {
			return err
		}
		c.setStream(stream)

		g.Go(func() error { return ended(c.readLoop(gctx)) })
		return nil
	})

	_ = g.Wait()
}

// ended 把正常结束也视为错误，使同组任务一起退出
func ended(err error) error {
	if err == nil {
		return errTaskEnded
	}
	return err
}

// finish 从 registry 移除并以对应关闭码关闭连接
func (c *connState) finish(parent context.Context, cause error) {
	code := closeCodeFor(parent, cause)

	c.h.registry.RemoveIf(c.addr, c.conn)
	_ = c.conn.CloseWithError(code, code.Reason())

	if code == pkgif.CodeLagged {
		c.h.metrics.SubscriberLagged()
	}
	c.h.metrics.ConnClosed(code)

	attrs := c.attrs("code", code, "player", c.identity(), "cause", cause)
	if code == pkgif.CodeLagged || code == pkgif.CodeProtocolViolation {
		logger.Warn("客户端连接异常结束", attrs...)
		return
	}
	logger.Info("客户端连接已结束", attrs...)
}

// closeCodeFor 根据结束原因选择关闭码
func closeCodeFor(parent context.Context, cause error) pkgif.CloseCode {
	switch {
	case parent.Err() != nil, errors.Is(cause, eventbus.ErrClosed):
		return pkgif.CodeShutdown
	case errors.Is(cause, eventbus.ErrLagged):
		return pkgif.CodeLagged
	case errors.Is(cause, framing.ErrFrameTooLarge):
		return pkgif.CodeProtocolViolation
	default:
		return pkgif.CodeHandlerEnded
	}
}

// inbound 构造入站信封
func (c *connState) inbound(cmd protocol.Command) envelope.Inbound {
	return envelope.Inbound{Source: c.addr, Player: c.identity(), Command: cmd}
}
