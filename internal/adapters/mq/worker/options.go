package worker

import (
	"github.com/okian/futdash/pkg/logger"
)

type settings struct {
	name      string
	queueSize int
	logger    logger.Logger
}

// Option applies a configuration option to a Pool.
type Option func(*settings)

// WithName sets the pool name for identification and logging.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithQueueSize bounds the job queue feeding the workers.
func WithQueueSize(size int) Option {
	return func(s *settings) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
