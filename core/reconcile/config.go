package reconcile

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds the tunables of a reconciliation run.
type Config struct {
	// LocationID is the inventory location adjusted by quantity runs.
	LocationID string `mapstructure:"location_id" default:""`
	// MarginFactor multiplies the rounded vendor price.
	MarginFactor string `mapstructure:"margin_factor" default:"1.15"`
	// Delimiter separates feed columns. Use "tab" for tab separated files.
	Delimiter string `mapstructure:"delimiter" default:","`
	// SkipHeader drops the first feed row.
	SkipHeader bool `mapstructure:"skip_header" default:"false"`
	// InventoryChunkSize is the number of changes per bulk inventory call.
	InventoryChunkSize int `mapstructure:"inventory_chunk_size" default:"50"`
	// PriceChunkSize is the number of concurrent price updates.
	PriceChunkSize int `mapstructure:"price_chunk_size" default:"5"`
	// PricePacingMs is the pause between price chunks in milliseconds.
	PricePacingMs int `mapstructure:"price_pacing_ms" default:"2000"`
	// RetryMaxAttempts bounds submissions of one price update.
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" default:"5"`
	// RetryInitialMs is the first retry wait in milliseconds.
	RetryInitialMs int `mapstructure:"retry_initial_ms" default:"5000"`
	// RetryMaxMs caps the retry wait in milliseconds.
	RetryMaxMs int `mapstructure:"retry_max_ms" default:"60000"`
}

// Margin parses MarginFactor.
func (c Config) Margin() (decimal.Decimal, error) {
	m, err := decimal.NewFromString(c.MarginFactor)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid margin_factor %q: %w", c.MarginFactor, err)
	}
	if !m.IsPositive() {
		return decimal.Zero, fmt.Errorf("margin_factor must be positive, got %s", c.MarginFactor)
	}
	return m, nil
}

// FeedOptions returns the feed tokenisation settings.
func (c Config) FeedOptions() (FeedOptions, error) {
	d, err := ParseDelimiter(c.Delimiter)
	if err != nil {
		return FeedOptions{}, err
	}
	return FeedOptions{Delimiter: d, SkipHeader: c.SkipHeader}, nil
}

// Dispatch returns the dispatcher settings.
func (c Config) Dispatch(dryRun bool) DispatchConfig {
	cfg := DefaultDispatchConfig()
	if c.InventoryChunkSize > 0 {
		cfg.InventoryChunkSize = c.InventoryChunkSize
	}
	if c.PriceChunkSize > 0 {
		cfg.PriceChunkSize = c.PriceChunkSize
	}
	if c.PricePacingMs >= 0 {
		cfg.PricePacing = time.Duration(c.PricePacingMs) * time.Millisecond
	}
	if c.RetryMaxAttempts > 0 {
		cfg.Retry.MaxAttempts = c.RetryMaxAttempts
	}
	if c.RetryInitialMs > 0 {
		cfg.Retry.InitialInterval = time.Duration(c.RetryInitialMs) * time.Millisecond
	}
	if c.RetryMaxMs > 0 {
		cfg.Retry.MaxInterval = time.Duration(c.RetryMaxMs) * time.Millisecond
	}
	cfg.DryRun = dryRun
	return cfg
}
