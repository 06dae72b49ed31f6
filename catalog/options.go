package catalog

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/superblob/errs"
	"github.com/arloliu/superblob/format"
	"github.com/arloliu/superblob/internal/options"
)

type config struct {
	logger      *slog.Logger
	compression format.CompressionType
	registerer  prometheus.Registerer
}

func defaultConfig() *config {
	return &config{
		logger:      slog.New(slog.DiscardHandler),
		compression: format.CompressionNone,
	}
}

// Validate implements options.Validator.
func (c *config) Validate() error {
	if !c.compression.IsValid() {
		return fmt.Errorf("%w: value compression %d", errs.ErrInvalidCompression, uint8(c.compression))
	}

	return nil
}

// Option configures a DB.
type Option = options.Option[*config]

// WithLogger sets the logger for catalog operations. A nil logger keeps the
// default, which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError("WithLogger", func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithValueCompression sets the codec applied to row values of a new
// catalog. An existing catalog keeps the codec it was created with.
func WithValueCompression(compression format.CompressionType) Option {
	return options.NoError("WithValueCompression", func(c *config) {
		c.compression = compression
	})
}

// WithMetricsRegisterer registers the catalog metrics with reg. Without it
// the metrics are still collected but not exported.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return options.New("WithMetricsRegisterer", func(c *config) error {
		if reg == nil {
			return fmt.Errorf("registerer cannot be nil")
		}
		c.registerer = reg

		return nil
	})
}
