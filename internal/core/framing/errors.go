package framing

import "errors"

var (
	// ErrTruncatedFrame 帧未读完流就结束（对端关闭或重置）
	//
	// 视为连接结束，区别于 protocol.ErrMalformedPayload。
	ErrTruncatedFrame = errors.New("framing: truncated frame")

	// ErrFrameTooLarge 声明的帧长度超过上限
	ErrFrameTooLarge = errors.New("framing: frame too large")
)
