package handler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"

	tec "github.com/jbenet/go-temp-err-catcher"
	"go.uber.org/multierr"

	"github.com/dep2p/go-gamenet/internal/core/eventbus"
	"github.com/dep2p/go-gamenet/internal/core/metrics"
	"github.com/dep2p/go-gamenet/internal/core/registry"
	"github.com/dep2p/go-gamenet/internal/core/security/cert"
	"github.com/dep2p/go-gamenet/pkg/envelope"
	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
	"github.com/dep2p/go-gamenet/pkg/lib/log"
)

var logger = log.Logger("core/handler")

// Handler 连接处理器
type Handler struct {
	cfg       Config
	transport pkgif.Transport
	registry  *registry.Registry
	bus       *eventbus.Bus[envelope.Outbound]
	material  *cert.Material
	metrics   metrics.Reporter

	// 在 Handler 整个生命周期内有效
	commands chan envelope.Inbound
	outbound chan envelope.Outbound

	mu  sync.Mutex
	run *runState
}

// runState 一次 Start 到 Shutdown 之间的状态
type runState struct {
	ctx      context.Context
	cancel   context.CancelFunc
	listener pkgif.Listener
	wg       sync.WaitGroup
}

// New 创建处理器
//
// material 可以为 nil，此时 Start 返回 cert.ErrNoCertificate。
// rep 为 nil 时不记录指标。
func New(cfg Config, tr pkgif.Transport, reg *registry.Registry, bus *eventbus.Bus[envelope.Outbound], material *cert.Material, rep metrics.Reporter) *Handler {
	if rep == nil {
		rep = metrics.Nop{}
	}
	return &Handler{
		cfg:       cfg,
		transport: tr,
		registry:  reg,
		bus:       bus,
		material:  material,
		metrics:   rep,
		commands:  make(chan envelope.Inbound, max(cfg.InboundBuffer, 1)),
		outbound:  make(chan envelope.Outbound, max(cfg.OutboundBuffer, 1)),
	}
}

// ============================================================================
//                              应用边界
// ============================================================================

// Commands 返回入站命令通道
//
// 通道从不关闭。应用读取过慢时，各连接的读循环被阻塞。
func (h *Handler) Commands() <-chan envelope.Inbound {
	return h.commands
}

// Send 把出站事件放入队列
//
// 队列满时阻塞直到有空位或 ctx 结束。未启动时事件留在队列中，
// 下次 Start 后投递给届时在线的连接。
func (h *Handler) Send(ctx context.Context, out envelope.Outbound) error {
	select {
	case h.outbound <- out:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 校验证书并开始监听
//
// 证书或绑定失败直接返回。已在监听时返回 ErrAlreadyStarted。
func (h *Handler) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.run != nil {
		return ErrAlreadyStarted
	}

	tlsConf, err := h.material.ServerTLSConfig()
	if err != nil {
		return fmt.Errorf("handler: certificate: %w", err)
	}

	l, err := h.transport.Listen(h.cfg.Socket, tlsConf)
	if err != nil {
		return fmt.Errorf("handler: listen %s: %w", h.cfg.Socket, err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	run := &runState{ctx: runCtx, cancel: cancel, listener: l}
	h.run = run

	run.wg.Add(2)
	go func() {
		defer run.wg.Done()
		h.acceptLoop(run)
	}()
	go func() {
		defer run.wg.Done()
		h.fanIn(runCtx)
	}()

	logger.Info("处理器已启动", "addr", l.Addr(), "transport", h.transport.Name())
	return nil
}

// Shutdown 关闭所有连接与监听器并等待连接任务退出
//
// 等待受 ctx 限制。未启动时直接返回 nil，可重复调用。
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	run := h.run
	h.run = nil
	h.mu.Unlock()

	if run == nil {
		return nil
	}

	logger.Info("正在关闭处理器", "connections", h.registry.Len())

	run.cancel()

	// 先以 CodeShutdown 关闭连接，再关闭监听器
	_, err := h.registry.CloseAll(pkgif.CodeShutdown, pkgif.ReasonShutdown)
	err = multierr.Append(err, run.listener.Close())

	done := make(chan struct{})
	go func() {
		run.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("处理器已关闭")
	case <-ctx.Done():
		err = multierr.Append(err, fmt.Errorf("handler: wait for connection tasks: %w", ctx.Err()))
		logger.Warn("等待连接任务超时")
	}
	return err
}

// Running 是否在监听
func (h *Handler) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.run != nil
}

// Addr 返回实际监听地址，未启动时为 nil
func (h *Handler) Addr() net.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.run == nil {
		return nil
	}
	return h.run.listener.Addr()
}

// Clients 返回当前在线客户端地址
func (h *Handler) Clients() []netip.AddrPort {
	return h.registry.Snapshot()
}

// ClientCount 返回在线客户端数量
func (h *Handler) ClientCount() int {
	return h.registry.Len()
}

// ============================================================================
//                              后台任务
// ============================================================================

// acceptLoop 接受连接
//
// 临时错误退避重试，其他错误结束循环。
func (h *Handler) acceptLoop(run *runState) {
	var catcher tec.TempErrCatcher

	for {
		conn, err := run.listener.Accept(run.ctx)
		if err != nil {
			if run.ctx.Err() != nil {
				return
			}
			if catcher.IsTemporary(err) {
				logger.Debug("accept 临时错误，重试", "error", err)
				continue
			}
			logger.Warn("accept 失败，停止接受连接", "error", err)
			return
		}
		catcher.Reset()

		run.wg.Add(1)
		go func() {
			defer run.wg.Done()
			h.handleConnection(run.ctx, conn)
		}()
	}
}

// fanIn 把出站队列中的事件发布到广播总线
func (h *Handler) fanIn(ctx context.Context) {
	for {
		select {
		case out := <-h.outbound:
			if _, err := h.bus.Publish(ctx, out); err != nil {
				if errors.Is(err, eventbus.ErrClosed) {
					logger.Warn("广播总线已关闭，停止扇出")
				}
				return
			}
			h.metrics.EventPublished()
		case <-ctx.Done():
			return
		}
	}
}
