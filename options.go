package gamenet

import (
	"errors"

	"go.uber.org/fx"

	"github.com/dep2p/go-gamenet/config"
	"github.com/dep2p/go-gamenet/internal/core/security/cert"
)

// Option 用户配置选项函数
type Option func(*serverConfig) error

// serverConfig 内部选项结构
type serverConfig struct {
	// config 统一配置
	config *config.Config

	// material 证书材料，为 nil 时按 network.certs / network.key 读取文件
	material *cert.Material

	// userFxOptions 用户追加的 Fx 选项
	userFxOptions []fx.Option
}

func newServerConfig() *serverConfig {
	return &serverConfig{config: config.NewConfig()}
}

// WithConfig 使用完整配置
//
// 配置被复制，之后对 cfg 的修改不影响服务。
func WithConfig(cfg *config.Config) Option {
	return func(c *serverConfig) error {
		if cfg == nil {
			return errors.New("gamenet: nil config")
		}
		c.config = cfg.Clone()
		return nil
	}
}

// WithSocket 设置监听地址（"ip:port"）
func WithSocket(addr string) Option {
	return func(c *serverConfig) error {
		c.config.Network.Socket = addr
		return nil
	}
}

// WithTransport 选择传输：quic 或 websocket
func WithTransport(name string) Option {
	return func(c *serverConfig) error {
		c.config.Network.Transport = name
		return nil
	}
}

// WithCertificate 直接提供内存中的证书材料
func WithCertificate(m *cert.Material) Option {
	return func(c *serverConfig) error {
		if m == nil {
			return cert.ErrNoCertificate
		}
		c.material = m
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
//
// 可以用 fx.Populate / fx.Invoke 取得内部组件，例如 *prometheus.Registry。
func WithFxOptions(opts ...fx.Option) Option {
	return func(c *serverConfig) error {
		c.userFxOptions = append(c.userFxOptions, opts...)
		return nil
	}
}
