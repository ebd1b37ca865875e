package gamenet

import (
	"errors"

	"github.com/dep2p/go-gamenet/config"
	"github.com/dep2p/go-gamenet/internal/core/eventbus"
	"github.com/dep2p/go-gamenet/internal/core/framing"
	"github.com/dep2p/go-gamenet/internal/core/handler"
	"github.com/dep2p/go-gamenet/internal/core/security/cert"
	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = handler.ErrAlreadyStarted

	// ErrServerClosed 服务已关闭，不能再次启动
	ErrServerClosed = errors.New("gamenet: server closed")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = config.ErrInvalidConfig

	// ────────────────────────────────────────────────────────────────────────
	// 证书材料错误（Start 时致命）
	// ────────────────────────────────────────────────────────────────────────

	// ErrNoCertificate 没有证书
	ErrNoCertificate = cert.ErrNoCertificate

	// ErrNoPrivateKey 没有私钥
	ErrNoPrivateKey = cert.ErrNoPrivateKey

	// ErrInvalidKey 私钥无效
	ErrInvalidKey = cert.ErrInvalidKey

	// ErrKeyMismatch 私钥与证书不匹配
	ErrKeyMismatch = cert.ErrKeyMismatch

	// ────────────────────────────────────────────────────────────────────────
	// 连接级错误（只结束单个连接）
	// ────────────────────────────────────────────────────────────────────────

	// ErrTruncatedFrame 帧未读完流就结束
	ErrTruncatedFrame = framing.ErrTruncatedFrame

	// ErrFrameTooLarge 帧超过上限
	ErrFrameTooLarge = framing.ErrFrameTooLarge

	// ErrMalformedPayload 负载无法解码，只丢弃该帧
	ErrMalformedPayload = protocol.ErrMalformedPayload

	// ErrLagged 订阅者落后被移除
	ErrLagged = eventbus.ErrLagged
)
