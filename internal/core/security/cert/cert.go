// Package cert 管理服务端的证书材料
//
// Material 只在内存中保存证书链与私钥，用于构建一次监听端点的 TLS 配置。
// 它的 String 与 LogValue 都会隐去私钥，可以安全地出现在日志属性中。
//
// 使用示例：
//
//	m, err := cert.LoadFiles("certs.pem", "key.pem")
//	if err != nil {
//	    return err
//	}
//	tlsConf, err := m.ServerTLSConfig()
package cert

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
)

// Material 证书材料：有序证书链（DER）加一个私钥
type Material struct {
	// Chain 证书链，第一个为叶子证书
	Chain [][]byte

	// Key 私钥
	Key crypto.Signer
}

// ParsePEM 解析 PEM 编码的证书链与私钥
//
// certPEM 中所有 CERTIFICATE 块按顺序组成证书链；keyPEM 必须恰好包含一个
// 私钥块（PKCS#8、PKCS#1 或 SEC1）。
func ParsePEM(certPEM, keyPEM []byte) (*Material, error) {
	chain, err := parseChain(certPEM)
	if err != nil {
		return nil, err
	}
	key, err := parseKey(keyPEM)
	if err != nil {
		return nil, err
	}

	m := &Material{Chain: chain, Key: key}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFiles 从文件读取并解析证书材料
func LoadFiles(certPath, keyPath string) (*Material, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrNoCertificate, certPath, err)
	}
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrNoPrivateKey, keyPath, err)
	}
	return ParsePEM(certPEM, keyPEM)
}

// Validate 检查证书材料是否完整且私钥与叶子证书匹配
func (m *Material) Validate() error {
	if m == nil || len(m.Chain) == 0 {
		return ErrNoCertificate
	}
	if m.Key == nil {
		return ErrNoPrivateKey
	}
	leaf, err := x509.ParseCertificate(m.Chain[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
	}
	pub, ok := m.Key.Public().(interface{ Equal(crypto.PublicKey) bool })
	if !ok || !pub.Equal(leaf.PublicKey) {
		return ErrKeyMismatch
	}
	return nil
}

// Leaf 解析叶子证书
func (m *Material) Leaf() (*x509.Certificate, error) {
	if m == nil || len(m.Chain) == 0 {
		return nil, ErrNoCertificate
	}
	leaf, err := x509.ParseCertificate(m.Chain[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
	}
	return leaf, nil
}

// CertificatePEM 返回证书链的 PEM 编码
func (m *Material) CertificatePEM() []byte {
	var out []byte
	for _, der := range m.Chain {
		out = append(out, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})...)
	}
	return out
}

// KeyPEM 返回私钥的 PKCS#8 PEM 编码
func (m *Material) KeyPEM() ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(m.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// String 返回不含私钥的描述
func (m *Material) String() string {
	if m == nil {
		return "cert.Material(nil)"
	}
	subject := "?"
	if leaf, err := m.Leaf(); err == nil {
		subject = leaf.Subject.String()
	}
	return fmt.Sprintf("cert.Material{chain=%d, subject=%q, key=[REDACTED]}", len(m.Chain), subject)
}

// LogValue 实现 slog.LogValuer，私钥不会出现在日志中
func (m *Material) LogValue() slog.Value {
	if m == nil {
		return slog.StringValue("<nil>")
	}
	attrs := []slog.Attr{
		slog.Int("chain", len(m.Chain)),
		slog.String("key", "[REDACTED]"),
	}
	if leaf, err := m.Leaf(); err == nil {
		attrs = append(attrs, slog.String("subject", leaf.Subject.String()), slog.Time("not_after", leaf.NotAfter))
	}
	return slog.GroupValue(attrs...)
}

// ============================================================================
//                              PEM 解析
// ============================================================================

func parseChain(certPEM []byte) ([][]byte, error) {
	var chain [][]byte
	rest := certPEM
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		if _, err := x509.ParseCertificate(block.Bytes); err != nil {
			return nil, fmt.Errorf("%w: certificate %d: %v", ErrInvalidCertificate, len(chain), err)
		}
		chain = append(chain, block.Bytes)
	}
	if len(chain) == 0 {
		return nil, ErrNoCertificate
	}
	return chain, nil
}

func parseKey(keyPEM []byte) (crypto.Signer, error) {
	var key crypto.Signer
	rest := keyPEM
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}

		var (
			parsed any
			err    error
		)
		switch block.Type {
		case "PRIVATE KEY":
			parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
		case "RSA PRIVATE KEY":
			parsed, err = x509.ParsePKCS1PrivateKey(block.Bytes)
		case "EC PRIVATE KEY":
			parsed, err = x509.ParseECPrivateKey(block.Bytes)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidKey, block.Type, err)
		}
		if key != nil {
			return nil, fmt.Errorf("%w: more than one private key", ErrInvalidKey)
		}
		signer, ok := parsed.(crypto.Signer)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported key type %T", ErrInvalidKey, parsed)
		}
		key = signer
	}
	if key == nil {
		return nil, ErrNoPrivateKey
	}
	return key, nil
}
