// Package config 提供 gamenet 服务端的统一配置
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义：
//   - Network: 监听地址、证书路径、传输选择、帧大小上限
//   - QUIC: QUIC 传输参数
//   - Handler: 应用侧通道容量
//   - Broadcast: 广播总线容量与滞后宽限
//   - Logging: 日志格式与级别
//   - Diagnostics: 指标服务
//
// 配置来源的优先级（由 cmd/gamenet 组合）：
//
//	命令行参数 > 环境变量 > 配置文件 > 默认值
//
// 使用示例：
//
//	cfg, err := config.LoadFile("gamenet.json")
//	if err != nil {
//	    return err
//	}
//	cfg.ApplyEnv(os.LookupEnv)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config

// Config 是 gamenet 的完整配置结构
type Config struct {
	// Network 网络与证书配置
	Network NetworkConfig `json:"network"`

	// QUIC QUIC 传输配置
	QUIC QUICConfig `json:"quic"`

	// Handler 连接处理器配置
	Handler HandlerConfig `json:"handler"`

	// Broadcast 出站广播配置
	Broadcast BroadcastConfig `json:"broadcast"`

	// Logging 日志配置
	Logging LoggingConfig `json:"logging"`

	// Diagnostics 诊断服务配置
	Diagnostics DiagnosticsConfig `json:"diagnostics"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Network:     DefaultNetworkConfig(),
		QUIC:        DefaultQUICConfig(),
		Handler:     DefaultHandlerConfig(),
		Broadcast:   DefaultBroadcastConfig(),
		Logging:     DefaultLoggingConfig(),
		Diagnostics: DefaultDiagnosticsConfig(),
	}
}

// Validate 验证配置的有效性
//
// 依次检查所有子配置，返回的错误包装 ErrInvalidConfig 并带有字段名。
func (c *Config) Validate() error {
	if err := c.Network.Validate(); err != nil {
		return err
	}
	if err := c.QUIC.Validate(); err != nil {
		return err
	}
	if err := c.Handler.Validate(); err != nil {
		return err
	}
	if err := c.Broadcast.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return c.Diagnostics.Validate()
}

// Clone 返回配置的深拷贝
//
// 所有子配置都是值类型，浅拷贝即可。
func (c *Config) Clone() *Config {
	if c == nil {
		return NewConfig()
	}
	cp := *c
	return &cp
}
