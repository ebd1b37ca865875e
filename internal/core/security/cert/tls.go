package cert

import (
	"crypto/tls"
	"crypto/x509"

	"github.com/dep2p/go-gamenet/pkg/protocol"
)

// TLSCertificate 构建 tls.Certificate
func (m *Material) TLSCertificate() (tls.Certificate, error) {
	if err := m.Validate(); err != nil {
		return tls.Certificate{}, err
	}
	leaf, err := m.Leaf()
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{
		Certificate: m.Chain,
		PrivateKey:  m.Key,
		Leaf:        leaf,
	}, nil
}

// ServerTLSConfig 构建服务端 TLS 配置（TLS 1.3，ALPN gamenet/1）
func (m *Material) ServerTLSConfig() (*tls.Config, error) {
	c, err := m.TLSCertificate()
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS13,
		Certificates: []tls.Certificate{c},
		NextProtos:   []string{protocol.ALPN},
	}, nil
}

// CertPool 返回只信任该证书链叶子的根证书池
//
// 用于客户端信任自签名证书。
func (m *Material) CertPool() (*x509.CertPool, error) {
	leaf, err := m.Leaf()
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	pool.AddCert(leaf)
	return pool, nil
}

// ClientTLSConfig 构建客户端 TLS 配置
//
// roots 为 nil 时使用系统根证书。
func ClientTLSConfig(roots *x509.CertPool, serverName string) *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS13,
		RootCAs:    roots,
		ServerName: serverName,
		NextProtos: []string{protocol.ALPN},
	}
}
