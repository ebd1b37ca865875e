package framing

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// TestEncodeFrame 测试前缀格式
func TestEncodeFrame(t *testing.T) {
	frame := EncodeFrame([]byte{0xaa, 0xbb})
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x02, 0xaa, 0xbb}, frame)

	empty := EncodeFrame(nil)
	assert.Equal(t, []byte{0, 0, 0, 0}, empty)
}

// TestReadFrame_RoundTrip 测试连续多帧读写
func TestReadFrame_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payloads := [][]byte{{1}, {}, bytes.Repeat([]byte{7}, 300)}
	for _, p := range payloads {
		require.NoError(t, WriteFrame(&buf, p))
	}

	for _, want := range payloads {
		got, err := ReadFrame(&buf, 0)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ReadFrame(&buf, 0)
	assert.ErrorIs(t, err, ErrTruncatedFrame)
	assert.ErrorIs(t, err, io.EOF)
}

// TestReadFrame_Truncated 测试各种短读
func TestReadFrame_Truncated(t *testing.T) {
	tests := map[string][]byte{
		"empty stream":   {},
		"partial prefix": {0x00, 0x00},
		"prefix only":    {0x00, 0x00, 0x00, 0x10},
		"short payload":  {0x00, 0x00, 0x00, 0x04, 0x01, 0x02},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadFrame(bytes.NewReader(data), 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTruncatedFrame)
			assert.NotErrorIs(t, err, protocol.ErrMalformedPayload)
		})
	}
}

// TestReadFrame_TruncatedStreamDoesNotHang 测试对端在帧中途关闭不会卡住
func TestReadFrame_TruncatedStreamDoesNotHang(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	go func() {
		_, _ = client.Write([]byte{0x00, 0x00, 0x00, 0x08, 0x01})
		_ = client.Close()
	}()

	done := make(chan error, 1)
	go func() {
		_, err := ReadFrame(server, 0)
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrTruncatedFrame)
	case <-time.After(2 * time.Second):
		t.Fatal("ReadFrame 未返回")
	}
}

// TestReadFrame_TooLarge 测试帧大小上限
func TestReadFrame_TooLarge(t *testing.T) {
	data := []byte{0x00, 0x10, 0x00, 0x01}
	_, err := ReadFrame(bytes.NewReader(data), 1<<20)
	assert.ErrorIs(t, err, ErrFrameTooLarge)

	ok := EncodeFrame(make([]byte, 16))
	payload, err := ReadFrame(bytes.NewReader(ok), 16)
	require.NoError(t, err)
	assert.Len(t, payload, 16)
}

// TestReadFrame_ReaderError 测试底层错误被包装
func TestReadFrame_ReaderError(t *testing.T) {
	boom := errors.New("stream reset")
	_, err := ReadFrame(errReader{err: boom}, 0)
	assert.ErrorIs(t, err, ErrTruncatedFrame)
	assert.ErrorIs(t, err, boom)
}

// TestEncodeMessages 测试消息帧的前缀等于负载长度
func TestEncodeMessages(t *testing.T) {
	frame, err := EncodeCommand(protocol.Join{UUID: 7, Hash: 42})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x06, 0x0a, 0x04, 0x08, 0x07, 0x10, 0x2a}, frame)

	payload, err := ReadFrame(bytes.NewReader(frame), 0)
	require.NoError(t, err)
	assert.Len(t, payload, len(frame)-PrefixSize)

	cmd, err := protocol.UnmarshalCommand(payload)
	require.NoError(t, err)
	assert.Equal(t, protocol.Join{UUID: 7, Hash: 42}, cmd)

	frame, err = EncodeEvent(protocol.PlayerJoined{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 2, 0x12, 0x00}, frame)

	_, err = EncodeEvent(nil)
	assert.ErrorIs(t, err, protocol.ErrUnknownVariant)
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
