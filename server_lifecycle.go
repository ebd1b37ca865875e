package gamenet

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期常量
// ════════════════════════════════════════════════════════════════════════════

const (
	// initializeTimeout 初始化超时（Fx App Start）
	initializeTimeout = 30 * time.Second

	// stopTimeout 关闭超时
	stopTimeout = 10 * time.Second
)

// State 服务状态
type State int

const (
	// StateIdle 已创建，未启动
	StateIdle State = iota

	// StateRunning 正在监听
	StateRunning

	// StateClosed 已关闭
	StateClosed
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期管理
// ════════════════════════════════════════════════════════════════════════════

// Start 启动服务
//
//  1. 启动 Fx App
//  2. 校验证书并绑定监听地址
//
// 任一步失败都会停止 Fx App，Server 进入 StateClosed。
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateClosed:
		return ErrServerClosed
	}

	initCtx, initCancel := context.WithTimeout(ctx, initializeTimeout)
	defer initCancel()

	if err := s.app.Start(initCtx); err != nil {
		s.state = StateClosed
		logger.Error("服务初始化失败", "error", err)
		return fmt.Errorf("initialize failed: %w", err)
	}

	if err := s.handler.Start(ctx); err != nil {
		s.state = StateClosed
		logger.Error("服务启动失败", "error", err)
		stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
		defer stopCancel()
		_ = s.app.Stop(stopCtx)
		return err
	}

	s.state = StateRunning
	logger.Info("服务已启动", "addr", s.handler.Addr(), "transport", s.config.config.Network.Transport)
	return nil
}

// Close 关闭服务
//
// 所有连接以 CodeShutdown 关闭，随后释放监听器与传输。可重复调用。
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}
	wasRunning := s.state == StateRunning
	s.state = StateClosed

	if !wasRunning {
		return nil
	}

	logger.Info("正在关闭服务")
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	// handler 的 OnStop 也会调用 Shutdown，这里先调用以便先于其他模块关闭连接
	err := s.handler.Shutdown(ctx)
	err = multierr.Append(err, s.app.Stop(ctx))
	if err != nil {
		logger.Warn("关闭服务时出错", "error", err)
	}
	return err
}
