package websocket

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"net/netip"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-gamenet/config"
	"github.com/dep2p/go-gamenet/internal/core/security/cert"
	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
)

func testTLS(t *testing.T) (server, client *tls.Config) {
	t.Helper()
	m, err := cert.GenerateSelfSigned()
	require.NoError(t, err)
	server, err = m.ServerTLSConfig()
	require.NoError(t, err)
	pool, err := m.CertPool()
	require.NoError(t, err)
	return server, cert.ClientTLSConfig(pool, "localhost")
}

func setup(t *testing.T) (*Transport, pkgif.Conn, pkgif.Conn, *tls.Config, pkgif.Listener) {
	t.Helper()
	serverTLS, clientTLS := testTLS(t)
	tr := New(ConfigFromUnified(config.NewConfig()))
	t.Cleanup(func() { _ = tr.Close() })

	l, err := tr.Listen(netip.MustParseAddrPort("127.0.0.1:0"), serverTLS)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := tr.Dial(ctx, l.Addr().String(), clientTLS)
	require.NoError(t, err)
	server, err := l.Accept(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.CloseWithError(pkgif.CodeHandlerEnded, "")
		_ = server.CloseWithError(pkgif.CodeHandlerEnded, "")
	})
	return tr, client, server, clientTLS, l
}

// TestTransport_StreamAcrossMessages 测试流读取跨越消息边界
func TestTransport_StreamAcrossMessages(t *testing.T) {
	tr, client, server, _, _ := setup(t)
	assert.Equal(t, "websocket", tr.Name())
	assert.True(t, server.RemoteAddr().Addr().IsLoopback())

	ctx := context.Background()
	cs, err := client.OpenStream(ctx)
	require.NoError(t, err)
	ss, err := server.AcceptStream(ctx)
	require.NoError(t, err)

	_, err = cs.Write([]byte("ab"))
	require.NoError(t, err)
	_, err = cs.Write([]byte("cde"))
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = io.ReadFull(ss, buf)
	require.NoError(t, err)
	assert.Equal(t, "abcde", string(buf))

	_, err = ss.Write([]byte("xyz"))
	require.NoError(t, err)
	small := make([]byte, 2)
	n, err := cs.Read(small)
	require.NoError(t, err)
	assert.Equal(t, "xy", string(small[:n]))
	n, err = cs.Read(small)
	require.NoError(t, err)
	assert.Equal(t, "z", string(small[:n]))
}

// TestConn_SingleStream 测试每个连接只有一条流
func TestConn_SingleStream(t *testing.T) {
	_, client, _, _, _ := setup(t)

	_, err := client.OpenStream(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.AcceptStream(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, client.CloseWithError(pkgif.CodeHandlerEnded, ""))
	_, err = client.OpenStream(context.Background())
	assert.ErrorIs(t, err, ErrConnClosed)
}

// TestConn_CloseWithError 测试关闭码映射到 4000 起的私有码
func TestConn_CloseWithError(t *testing.T) {
	_, client, server, _, _ := setup(t)

	cs, err := client.OpenStream(context.Background())
	require.NoError(t, err)

	require.NoError(t, server.CloseWithError(pkgif.CodeLagged, pkgif.ReasonLagged))
	require.NoError(t, server.CloseWithError(pkgif.CodeLagged, pkgif.ReasonLagged))
	<-server.Done()

	_, err = cs.Read(make([]byte, 1))
	require.Error(t, err)
	code, ok := CloseCodeOf(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, pkgif.CodeLagged, code)

	var ce *gws.CloseError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 4257, ce.Code)
	assert.Equal(t, pkgif.ReasonLagged, ce.Text)

	select {
	case <-client.Done():
	case <-time.After(time.Second):
		t.Fatal("客户端连接未结束")
	}
}

// TestStream_CloseRejectsWrites 测试写方向关闭
func TestStream_CloseRejectsWrites(t *testing.T) {
	_, client, _, _, _ := setup(t)

	cs, err := client.OpenStream(context.Background())
	require.NoError(t, err)
	require.NoError(t, cs.Close())
	_, err = cs.Write([]byte{1})
	assert.ErrorIs(t, err, ErrStreamClosed)
}

// TestListener_Close 测试监听器关闭
func TestListener_Close(t *testing.T) {
	tr, _, _, clientTLS, l := setup(t)

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	_, err := l.Accept(context.Background())
	assert.ErrorIs(t, err, ErrListenerClosed)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = tr.Dial(ctx, l.Addr().String(), clientTLS)
	assert.Error(t, err)
}

// TestListener_WrongPath 测试非升级路径返回 404
func TestListener_WrongPath(t *testing.T) {
	_, _, _, clientTLS, l := setup(t)

	hc := &http.Client{Transport: &http.Transport{TLSClientConfig: withHTTP1(clientTLS)}}
	resp, err := hc.Get("https://" + l.Addr().String() + "/other")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestTransport_Closed 测试关闭后的传输
func TestTransport_Closed(t *testing.T) {
	tr := New(Config{})
	assert.Equal(t, "/", tr.config.Path)
	assert.Equal(t, int64(0), tr.readLimit())
	assert.Nil(t, withHTTP1(nil))

	_, err := tr.Listen(netip.MustParseAddrPort("127.0.0.1:0"), nil)
	assert.ErrorIs(t, err, ErrNoCertificate)

	require.NoError(t, tr.Close())
	_, err = tr.Listen(netip.MustParseAddrPort("127.0.0.1:0"), &tls.Config{})
	assert.ErrorIs(t, err, ErrTransportClosed)
	_, err = tr.Dial(context.Background(), "127.0.0.1:1", nil)
	assert.ErrorIs(t, err, ErrTransportClosed)
}

// TestCloseCodeOf 测试关闭码解析
func TestCloseCodeOf(t *testing.T) {
	code, ok := CloseCodeOf(&gws.CloseError{Code: 4258})
	assert.True(t, ok)
	assert.Equal(t, pkgif.CodeProtocolViolation, code)

	_, ok = CloseCodeOf(&gws.CloseError{Code: gws.CloseNormalClosure})
	assert.False(t, ok)

	_, ok = CloseCodeOf(io.EOF)
	assert.False(t, ok)
}
