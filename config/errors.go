package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrReadFile 读取配置文件失败
	ErrReadFile = errors.New("config: read file")
)

// invalid 构造带字段名的配置错误
func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
}
