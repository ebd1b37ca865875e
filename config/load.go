package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "GAMENET_"

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值：
//
//	{
//	  "network": {"socket": "127.0.0.1:4433", "transport": "quic"},
//	  "broadcast": {"lag_grace": "50ms"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// LoadFile 从文件加载配置
//
// 文件不存在时返回默认配置，因此配置文件是可选的。
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return NewConfig(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrReadFile, path, err)
	}
	return FromJSON(data)
}

// ToJSON 序列化配置（带缩进）
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// LookupFunc 环境变量查找函数，签名与 os.LookupEnv 一致
type LookupFunc func(key string) (string, bool)

// ApplyEnv 用环境变量覆盖配置
//
// 支持的变量（前缀 GAMENET_）：
//   - GAMENET_SOCKET
//   - GAMENET_CERTS
//   - GAMENET_KEY
//   - GAMENET_TRANSPORT
//   - GAMENET_METRICS_ADDR
//
// 日志相关的 GAMENET_LOG_LEVEL / GAMENET_LOG_FORMAT 由 internal/util/logger 读取。
func (c *Config) ApplyEnv(lookup LookupFunc) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	overrides := []struct {
		name string
		dst  *string
	}{
		{"SOCKET", &c.Network.Socket},
		{"CERTS", &c.Network.Certs},
		{"KEY", &c.Network.Key},
		{"TRANSPORT", &c.Network.Transport},
		{"METRICS_ADDR", &c.Diagnostics.MetricsAddr},
	}
	for _, o := range overrides {
		if v, ok := lookup(EnvPrefix + o.name); ok && v != "" {
			*o.dst = v
		}
	}
}
