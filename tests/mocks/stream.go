package mocks

import (
	"bytes"
	"io"
	"sync"

	"github.com/dep2p/go-gamenet/pkg/interfaces"
)

// MockStream 模拟 Stream 接口实现
//
// 默认从 ReadData 读取，写入追加到内部缓冲。
type MockStream struct {
	ReadData []byte

	// 可覆盖的方法
	ReadFunc  func(p []byte) (int, error)
	WriteFunc func(p []byte) (int, error)
	CloseFunc func() error

	mu      sync.Mutex
	readPos int
	written bytes.Buffer
	closed  bool
}

var _ interfaces.Stream = (*MockStream)(nil)

// NewMockStream 创建 MockStream
func NewMockStream(readData []byte) *MockStream {
	return &MockStream{ReadData: readData}
}

// Read 读取数据
func (m *MockStream) Read(p []byte) (int, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readPos >= len(m.ReadData) {
		return 0, io.EOF
	}
	n := copy(p, m.ReadData[m.readPos:])
	m.readPos += n
	return n, nil
}

// Write 写入数据
func (m *MockStream) Write(p []byte) (int, error) {
	if m.WriteFunc != nil {
		return m.WriteFunc(p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	return m.written.Write(p)
}

// Close 关闭流
func (m *MockStream) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Written 返回已写入的数据副本
func (m *MockStream) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.written.Bytes())
}

// IsClosed 是否已关闭
func (m *MockStream) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
