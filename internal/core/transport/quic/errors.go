package quic

import "errors"

var (
	// ErrTransportClosed 传输已关闭
	ErrTransportClosed = errors.New("quic: transport closed")

	// ErrListenerClosed 监听器已关闭
	ErrListenerClosed = errors.New("quic: listener closed")

	// ErrNoCertificate 没有 TLS 证书
	ErrNoCertificate = errors.New("quic: no TLS certificate available")
)
