package cert

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-gamenet/pkg/protocol"
)

func selfSigned(t *testing.T, hosts ...string) *Material {
	t.Helper()
	m, err := GenerateSelfSigned(hosts...)
	require.NoError(t, err)
	return m
}

func keyPEMOf(t *testing.T, m *Material) []byte {
	t.Helper()
	out, err := m.KeyPEM()
	require.NoError(t, err)
	return out
}

// TestGenerateSelfSigned 测试自签名证书生成
func TestGenerateSelfSigned(t *testing.T) {
	m := selfSigned(t, "game.example", "10.0.0.1")
	require.NoError(t, m.Validate())

	leaf, err := m.Leaf()
	require.NoError(t, err)
	assert.Equal(t, []string{"game.example"}, leaf.DNSNames)
	require.Len(t, leaf.IPAddresses, 1)
	assert.Equal(t, "10.0.0.1", leaf.IPAddresses[0].String())
	assert.Equal(t, "game.example", leaf.Subject.CommonName)

	def := selfSigned(t)
	leaf, err = def.Leaf()
	require.NoError(t, err)
	assert.Contains(t, leaf.DNSNames, "localhost")
}

// TestParsePEM_RoundTrip 测试 PEM 往返
func TestParsePEM_RoundTrip(t *testing.T) {
	m := selfSigned(t)
	other := selfSigned(t)

	chainPEM := append(m.CertificatePEM(), other.CertificatePEM()...)
	parsed, err := ParsePEM(chainPEM, keyPEMOf(t, m))
	require.NoError(t, err)
	require.Len(t, parsed.Chain, 2)
	assert.Equal(t, m.Chain[0], parsed.Chain[0])
	assert.Equal(t, other.Chain[0], parsed.Chain[1])
}

// TestParsePEM_KeyFormats 测试 SEC1 与 PKCS#1 私钥格式
func TestParsePEM_KeyFormats(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	ecDER, err := x509.MarshalECPrivateKey(ecKey)
	require.NoError(t, err)

	tests := []struct {
		name string
		mat  *Material
		key  []byte
	}{
		{
			name: "SEC1",
			mat:  mustSign(t, ecKey),
			key:  pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: ecDER}),
		},
		{
			name: "PKCS1",
			mat:  mustSign(t, rsaKey),
			key:  pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(rsaKey)}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePEM(tt.mat.CertificatePEM(), tt.key)
			assert.NoError(t, err)
		})
	}
}

// mustSign 用给定私钥签发一张自签名证书
func mustSign(t *testing.T, key crypto.Signer) *Material {
	t.Helper()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	require.NoError(t, err)
	return &Material{Chain: [][]byte{der}, Key: key}
}

// TestParsePEM_Errors 测试证书材料错误
func TestParsePEM_Errors(t *testing.T) {
	m := selfSigned(t)
	other := selfSigned(t)
	keyPEM := keyPEMOf(t, m)

	tests := []struct {
		name    string
		certPEM []byte
		keyPEM  []byte
		want    error
	}{
		{"no certificate", nil, keyPEM, ErrNoCertificate},
		{"garbage certificate", pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte("x")}), keyPEM, ErrInvalidCertificate},
		{"no key", m.CertificatePEM(), []byte("not pem"), ErrNoPrivateKey},
		{"garbage key", m.CertificatePEM(), pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte("x")}), ErrInvalidKey},
		{"two keys", m.CertificatePEM(), append(bytes.Clone(keyPEM), keyPEMOf(t, other)...), ErrInvalidKey},
		{"mismatch", m.CertificatePEM(), keyPEMOf(t, other), ErrKeyMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePEM(tt.certPEM, tt.keyPEM)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var nilMat *Material
	assert.ErrorIs(t, nilMat.Validate(), ErrNoCertificate)
	assert.ErrorIs(t, (&Material{Chain: m.Chain}).Validate(), ErrNoPrivateKey)
}

// TestLoadFiles 测试从文件加载
func TestLoadFiles(t *testing.T) {
	m := selfSigned(t)
	dir := t.TempDir()
	certPath := filepath.Join(dir, "certs.pem")
	keyPath := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certPath, m.CertificatePEM(), 0o600))
	require.NoError(t, os.WriteFile(keyPath, keyPEMOf(t, m), 0o600))

	loaded, err := LoadFiles(certPath, keyPath)
	require.NoError(t, err)
	assert.Equal(t, m.Chain, loaded.Chain)

	_, err = LoadFiles(certPath, filepath.Join(dir, "missing.pem"))
	assert.ErrorIs(t, err, ErrNoPrivateKey)

	_, err = LoadFiles(filepath.Join(dir, "missing.pem"), keyPath)
	assert.ErrorIs(t, err, ErrNoCertificate)
}

// TestMaterial_Redaction 测试私钥不会出现在日志中
func TestMaterial_Redaction(t *testing.T) {
	m := selfSigned(t)
	keyPEM := keyPEMOf(t, m)

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("loaded", "material", m)

	out := buf.String()
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, string(keyPEM))
	assert.Contains(t, fmt.Sprint(m), "[REDACTED]")
	assert.Contains(t, m.String(), "chain=1")
}

// TestTLSConfigs 测试 TLS 配置
func TestTLSConfigs(t *testing.T) {
	m := selfSigned(t)

	server, err := m.ServerTLSConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{protocol.ALPN}, server.NextProtos)
	require.Len(t, server.Certificates, 1)
	assert.NotNil(t, server.Certificates[0].Leaf)

	pool, err := m.CertPool()
	require.NoError(t, err)
	client := ClientTLSConfig(pool, "localhost")
	assert.Equal(t, "localhost", client.ServerName)
	assert.Equal(t, []string{protocol.ALPN}, client.NextProtos)

	_, err = (&Material{}).ServerTLSConfig()
	assert.ErrorIs(t, err, ErrNoCertificate)
}
