package mocks

import (
	"context"
	"net"
	"net/netip"
	"sync"

	"github.com/dep2p/go-gamenet/pkg/interfaces"
)

// CloseCall 一次 CloseWithError 调用
type CloseCall struct {
	Code   interfaces.CloseCode
	Reason string
}

// MockConn 模拟 Conn 接口实现
type MockConn struct {
	Remote netip.AddrPort
	Local  net.Addr

	// StreamValue AcceptStream/OpenStream 返回的流
	StreamValue interfaces.Stream

	// 可覆盖的方法
	AcceptStreamFunc   func(ctx context.Context) (interfaces.Stream, error)
	OpenStreamFunc     func(ctx context.Context) (interfaces.Stream, error)
	CloseWithErrorFunc func(code interfaces.CloseCode, reason string) error

	mu         sync.Mutex
	closeCalls []CloseCall
	done       chan struct{}
	doneOnce   sync.Once
}

var _ interfaces.Conn = (*MockConn)(nil)

// NewMockConn 创建 MockConn
//
// stream 在 CloseWithError 时一并关闭（若实现了 Close）。
func NewMockConn(remote netip.AddrPort, stream interfaces.Stream) *MockConn {
	return &MockConn{
		Remote:      remote,
		StreamValue: stream,
		done:        make(chan struct{}),
	}
}

// RemoteAddr 返回对端地址
func (m *MockConn) RemoteAddr() netip.AddrPort {
	return m.Remote
}

// LocalAddr 返回本地地址
func (m *MockConn) LocalAddr() net.Addr {
	if m.Local != nil {
		return m.Local
	}
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1234}
}

// AcceptStream 返回 StreamValue
func (m *MockConn) AcceptStream(ctx context.Context) (interfaces.Stream, error) {
	if m.AcceptStreamFunc != nil {
		return m.AcceptStreamFunc(ctx)
	}
	return m.StreamValue, nil
}

// OpenStream 返回 StreamValue
func (m *MockConn) OpenStream(ctx context.Context) (interfaces.Stream, error) {
	if m.OpenStreamFunc != nil {
		return m.OpenStreamFunc(ctx)
	}
	return m.StreamValue, nil
}

// CloseWithError 记录调用，关闭流与 Done
func (m *MockConn) CloseWithError(code interfaces.CloseCode, reason string) error {
	m.mu.Lock()
	m.closeCalls = append(m.closeCalls, CloseCall{Code: code, Reason: reason})
	m.mu.Unlock()

	m.doneOnce.Do(func() {
		m.ensureDone()
		close(m.done)
		if m.StreamValue != nil {
			_ = m.StreamValue.Close()
		}
	})

	if m.CloseWithErrorFunc != nil {
		return m.CloseWithErrorFunc(code, reason)
	}
	return nil
}

// Done 关闭后关闭
func (m *MockConn) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureDoneLocked()
	return m.done
}

// CloseCalls 返回 CloseWithError 调用记录
func (m *MockConn) CloseCalls() []CloseCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CloseCall, len(m.closeCalls))
	copy(out, m.closeCalls)
	return out
}

// Closed 是否已关闭
func (m *MockConn) Closed() bool {
	select {
	case <-m.Done():
		return true
	default:
		return false
	}
}

func (m *MockConn) ensureDone() {
	m.mu.Lock()
	m.ensureDoneLocked()
	m.mu.Unlock()
}

// ensureDoneLocked 允许以零值构造 MockConn
func (m *MockConn) ensureDoneLocked() {
	if m.done == nil {
		m.done = make(chan struct{})
	}
}
