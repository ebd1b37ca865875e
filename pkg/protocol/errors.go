package protocol

import "errors"

var (
	// ErrMalformedPayload 负载无法解码为任何已知变体
	//
	// 只丢弃当前帧，连接继续。
	ErrMalformedPayload = errors.New("protocol: malformed payload")

	// ErrUnknownVariant 负载中没有已知的变体字段，或编码了未知类型
	ErrUnknownVariant = errors.New("protocol: unknown variant")
)
