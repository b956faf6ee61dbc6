package converter

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

// Option is a function that configures a Converter.
type Option func(*Converter) error

// WithStrategy sets the ambiguity strategy. The default is Mixture.
func WithStrategy(strategy ontology.Strategy) Option {
	return func(c *Converter) error {
		if _, err := ontology.ParseStrategy(string(strategy)); err != nil {
			return err
		}
		c.strategy = strategy
		return nil
	}
}

// WithBatchSize sets how many identifiers are sent per resolver call. The
// ceiling is enforced here, before any network activity.
func WithBatchSize(size int) Option {
	return func(c *Converter) error {
		if size <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		if size > constants.MaxBatchSize {
			return fmt.Errorf("the batch size cannot be larger than %d, got %d", constants.MaxBatchSize, size)
		}
		c.batchSize = size
		return nil
	}
}

// WithSleepTime sets the pause between resolver batches.
func WithSleepTime(d time.Duration) Option {
	return func(c *Converter) error {
		if d < 0 {
			return fmt.Errorf("sleep time must not be negative, got %s", d)
		}
		c.sleepTime = d
		return nil
	}
}

// WithMetadataEnrichment controls whether a metadata-enrichment pass runs
// after all batches. Enabled by default.
func WithMetadataEnrichment(enabled bool) Option {
	return func(c *Converter) error {
		c.enrich = enabled
		return nil
	}
}

// WithLogger sets the logger used for batch progress.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Converter) error {
		c.logger = logger
		return nil
	}
}
