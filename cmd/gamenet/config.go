package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/dep2p/go-gamenet/config"
)

// ============================================================================
//                              命令行参数
// ============================================================================

// cliFlags 命令行参数
type cliFlags struct {
	configFile string
	socket     string
	certs      string
	key        string
	transport  string
	logLevel   string
	logFormat  string
	metrics    string
	selfSigned bool
	version    bool

	// set 显式设置过的参数名
	set map[string]bool
}

// parseFlags 解析命令行参数
func parseFlags(args []string, output io.Writer) (*cliFlags, error) {
	f := &cliFlags{set: make(map[string]bool)}

	fs := flag.NewFlagSet("gamenet", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.configFile, "config", "", "JSON 配置文件路径（不存在时使用默认值）")
	fs.StringVar(&f.socket, "socket", "", "监听地址 ip:port")
	fs.StringVar(&f.certs, "certs", "", "证书链 PEM 文件")
	fs.StringVar(&f.key, "key", "", "私钥 PEM 文件")
	fs.StringVar(&f.transport, "transport", "", "传输 (quic/websocket)")
	fs.StringVar(&f.logLevel, "log-level", "", "日志级别 (trace/debug/info/warn/error)")
	fs.StringVar(&f.logFormat, "log-format", "", "日志格式 (default/pretty/json)")
	fs.StringVar(&f.metrics, "metrics", "", "Prometheus 指标监听地址，空表示禁用")
	fs.BoolVar(&f.selfSigned, "self-signed", false, "使用内存中的自签名证书（仅开发）")
	fs.BoolVar(&f.version, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// ============================================================================
//                              配置组合
// ============================================================================

// buildConfig 组合最终配置
//
// 优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（GAMENET_* 前缀）
//  3. 配置文件
//  4. 默认值
func buildConfig(f *cliFlags, lookup config.LookupFunc) (*config.Config, error) {
	cfg, err := config.LoadFile(f.configFile)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(lookup)

	overrides := []struct {
		name  string
		value string
		dst   *string
	}{
		{"socket", f.socket, &cfg.Network.Socket},
		{"certs", f.certs, &cfg.Network.Certs},
		{"key", f.key, &cfg.Network.Key},
		{"transport", f.transport, &cfg.Network.Transport},
		{"log-level", f.logLevel, &cfg.Logging.LogLevel},
		{"log-format", f.logFormat, &cfg.Logging.OutputFormat},
		{"metrics", f.metrics, &cfg.Diagnostics.MetricsAddr},
	}
	for _, o := range overrides {
		if f.set[o.name] {
			*o.dst = o.value
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}
	return cfg, nil
}

// logLookup 返回日志初始化使用的环境变量查找函数
//
// 命令行已指定日志级别或格式时屏蔽对应的环境变量，保持命令行优先。
func logLookup(f *cliFlags, lookup config.LookupFunc) config.LookupFunc {
	hidden := map[string]bool{
		config.EnvPrefix + "LOG_LEVEL":  f.set["log-level"],
		config.EnvPrefix + "LOG_FORMAT": f.set["log-format"],
	}
	return func(key string) (string, bool) {
		if hidden[key] {
			return "", false
		}
		return lookup(key)
	}
}
