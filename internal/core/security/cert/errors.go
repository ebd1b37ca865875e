package cert

import "errors"

var (
	// ErrNoCertificate 没有找到证书
	ErrNoCertificate = errors.New("cert: no certificate")

	// ErrInvalidCertificate 证书无法解析
	ErrInvalidCertificate = errors.New("cert: invalid certificate")

	// ErrNoPrivateKey 没有找到私钥
	ErrNoPrivateKey = errors.New("cert: no private key")

	// ErrInvalidKey 私钥无法解析或不受支持，或者提供了多个私钥
	ErrInvalidKey = errors.New("cert: invalid private key")

	// ErrKeyMismatch 私钥与叶子证书的公钥不匹配
	ErrKeyMismatch = errors.New("cert: private key does not match certificate")
)
