// Package testutil 提供测试辅助工具
//
// 包括回环配置、自签名证书固件与带超时的等待函数。
// 只能被外层包的测试导入：cert 与 config 自身的测试不能使用它。
package testutil

import (
	"crypto/tls"
	"testing"

	"github.com/dep2p/go-gamenet/config"
	"github.com/dep2p/go-gamenet/internal/core/security/cert"
)

// 测试数据固件
const (
	// LoopbackSocket 回环地址上的随机端口
	LoopbackSocket = "127.0.0.1:0"

	// ServerName 自签名证书包含的主机名
	ServerName = "localhost"
)

// LoopbackConfig 返回监听回环随机端口的默认配置
func LoopbackConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Network.Socket = LoopbackSocket
	return cfg
}

// SelfSigned 生成自签名证书材料及信任它的客户端 TLS 配置
func SelfSigned(t *testing.T) (*cert.Material, *tls.Config) {
	t.Helper()
	m, err := cert.GenerateSelfSigned()
	if err != nil {
		t.Fatalf("生成自签名证书失败: %v", err)
	}
	pool, err := m.CertPool()
	if err != nil {
		t.Fatalf("构建证书池失败: %v", err)
	}
	return m, cert.ClientTLSConfig(pool, ServerName)
}
