package repository

import "github.com/okian/futdash/pkg/logger"

// Option applies a configuration option to the SQLiteHistory.
type Option func(*SQLiteHistory)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLiteHistory) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTableLabel sets the label used for the rows-written metric.
func WithTableLabel(label string) Option {
	return func(s *SQLiteHistory) {
		if label != "" {
			s.label = label
		}
	}
}
