package eventbus

import (
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultBuffer 默认订阅缓冲区大小
const DefaultBuffer = 1024

type settings struct {
	buffer   int
	lagGrace time.Duration
	clock    clock.Clock
}

func defaultSettings() settings {
	return settings{
		buffer: DefaultBuffer,
		clock:  clock.New(),
	}
}

// Option 总线选项
type Option func(*settings)

// WithBuffer 设置每个订阅者的缓冲区大小
func WithBuffer(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// WithLagGrace 设置缓冲区满时等待的时长，0 表示立即判定落后
func WithLagGrace(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.lagGrace = d
		}
	}
}

// WithClock 替换时钟，用于测试
func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}
