package transport

import "errors"

// ErrUnknownTransport 配置了未知的传输
var ErrUnknownTransport = errors.New("transport: unknown transport")
