package websocket

import "errors"

var (
	// ErrTransportClosed 传输已关闭
	ErrTransportClosed = errors.New("websocket: transport closed")

	// ErrListenerClosed 监听器已关闭
	ErrListenerClosed = errors.New("websocket: listener closed")

	// ErrConnClosed 连接已关闭
	ErrConnClosed = errors.New("websocket: connection closed")

	// ErrStreamClosed 流的写方向已关闭
	ErrStreamClosed = errors.New("websocket: stream closed for writing")

	// ErrNoCertificate 没有 TLS 证书
	ErrNoCertificate = errors.New("websocket: no TLS certificate available")
)
