package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Platform limits for the two mutation endpoints.
const (
	DefaultInventoryChunkSize = 50
	DefaultPriceChunkSize     = 5
	DefaultPricePacing        = 2 * time.Second
)

// DispatchConfig controls batching, pacing and retry of mutations.
type DispatchConfig struct {
	// InventoryChunkSize is the number of changes per bulk inventory call.
	InventoryChunkSize int

	// PriceChunkSize is the number of price updates submitted concurrently.
	PriceChunkSize int

	// PricePacing is the pause between two price chunks.
	PricePacing time.Duration

	// Retry applies to each individual price update.
	Retry RetryPolicy

	// DryRun counts what would be sent without calling the platform.
	DryRun bool
}

// DefaultDispatchConfig returns the limits the platform tolerates without throttling.
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		InventoryChunkSize: DefaultInventoryChunkSize,
		PriceChunkSize:     DefaultPriceChunkSize,
		PricePacing:        DefaultPricePacing,
		Retry:              DefaultRetryPolicy(),
	}
}

// DispatchStats summarises a dispatch.
type DispatchStats struct {
	Chunks     int
	ChunkSizes []int
	Dispatched int
	Failed     int
	Retries    int

	// Errors holds one entry per failed inventory chunk or terminally failed price update.
	Errors []error
}

func (s *DispatchStats) merge(o DispatchStats) {
	s.Chunks += o.Chunks
	s.ChunkSizes = append(s.ChunkSizes, o.ChunkSizes...)
	s.Dispatched += o.Dispatched
	s.Failed += o.Failed
	s.Retries += o.Retries
	s.Errors = append(s.Errors, o.Errors...)
}

// Dispatcher drains mutation descriptors into the platform.
type Dispatcher struct {
	cfg       DispatchConfig
	inventory InventoryMutator
	prices    PriceMutator
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher. Either mutator may be nil when the run
// never produces that mutation kind.
func NewDispatcher(cfg DispatchConfig, inventory InventoryMutator, prices PriceMutator, logger *zap.Logger) *Dispatcher {
	if cfg.InventoryChunkSize <= 0 {
		cfg.InventoryChunkSize = DefaultInventoryChunkSize
	}
	if cfg.PriceChunkSize <= 0 {
		cfg.PriceChunkSize = DefaultPriceChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{cfg: cfg, inventory: inventory, prices: prices, logger: logger}
}

// Chunk splits items into consecutive slices of at most size elements, preserving order.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// Dispatch sends every mutation, grouped by kind. Inventory deltas go first.
func (d *Dispatcher) Dispatch(ctx context.Context, mutations []Mutation) DispatchStats {
	var (
		deltas  []InventoryDelta
		updates []PriceUpdate
	)
	for _, m := range mutations {
		switch v := m.(type) {
		case InventoryDelta:
			deltas = append(deltas, v)
		case PriceUpdate:
			updates = append(updates, v)
		}
	}

	var stats DispatchStats
	if len(deltas) > 0 {
		stats.merge(d.DispatchInventory(ctx, deltas))
	}
	if len(updates) > 0 {
		stats.merge(d.DispatchPrices(ctx, updates))
	}
	return stats
}

// DispatchInventory submits deltas in sequential bulk calls.
// A rejected chunk is logged and not retried; its deltas are lost for this run.
func (d *Dispatcher) DispatchInventory(ctx context.Context, deltas []InventoryDelta) DispatchStats {
	var stats DispatchStats
	chunks := Chunk(deltas, d.cfg.InventoryChunkSize)

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			stats.Failed += remaining(chunks[i:])
			stats.Errors = append(stats.Errors, err)
			d.logger.Warn("Inventory dispatch cancelled", zap.Int("chunk", i+1), zap.Error(err))
			break
		}

		stats.Chunks++
		stats.ChunkSizes = append(stats.ChunkSizes, len(chunk))

		if d.cfg.DryRun {
			stats.Dispatched += len(chunk)
			continue
		}
		if d.inventory == nil {
			stats.Failed += len(chunk)
			stats.Errors = append(stats.Errors, &BatchMutationError{Chunk: i + 1, Size: len(chunk), Err: fmt.Errorf("no inventory mutator configured")})
			continue
		}

		if err := d.inventory.AdjustInventory(ctx, chunk); err != nil {
			berr := &BatchMutationError{Chunk: i + 1, Size: len(chunk), Err: err}
			stats.Failed += len(chunk)
			stats.Errors = append(stats.Errors, berr)
			d.logger.Error("Inventory chunk rejected", zap.Int("chunk", i+1), zap.Int("size", len(chunk)), zap.Error(err))
			continue
		}

		stats.Dispatched += len(chunk)
		d.logger.Info("Inventory chunk applied", zap.Int("chunk", i+1), zap.Int("of", len(chunks)), zap.Int("size", len(chunk)))
	}

	return stats
}

// DispatchPrices submits updates chunk by chunk. Updates inside a chunk run
// concurrently and each one is retried under the configured policy; the next
// chunk starts after all of them finished and the pacing interval elapsed.
func (d *Dispatcher) DispatchPrices(ctx context.Context, updates []PriceUpdate) DispatchStats {
	var stats DispatchStats
	chunks := Chunk(updates, d.cfg.PriceChunkSize)

	for i, chunk := range chunks {
		if i > 0 && !d.cfg.DryRun {
			if err := sleep(ctx, d.cfg.PricePacing); err != nil {
				stats.Failed += remaining(chunks[i:])
				stats.Errors = append(stats.Errors, err)
				d.logger.Warn("Price dispatch cancelled", zap.Int("chunk", i+1), zap.Error(err))
				break
			}
		}

		stats.Chunks++
		stats.ChunkSizes = append(stats.ChunkSizes, len(chunk))

		if d.cfg.DryRun {
			stats.Dispatched += len(chunk)
			continue
		}

		results := d.submitPriceChunk(ctx, chunk)
		for j, res := range results {
			stats.Retries += res.Retries()
			if res.Outcome == OutcomeSucceeded {
				stats.Dispatched++
				continue
			}
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Errorf("variant %s: %w", chunk[j].VariantID, res.Err))
			d.logger.Error("Price update failed",
				zap.String("variant_id", chunk[j].VariantID),
				zap.String("sku", chunk[j].SKU),
				zap.Int("attempts", len(res.Attempts)),
				zap.Error(res.Err),
			)
		}
		d.logger.Info("Price chunk processed", zap.Int("chunk", i+1), zap.Int("of", len(chunks)), zap.Int("size", len(chunk)))
	}

	return stats
}

// submitPriceChunk fans out one goroutine per update and joins on all of them.
// Each goroutine writes only its own slot of results.
func (d *Dispatcher) submitPriceChunk(ctx context.Context, chunk []PriceUpdate) []Result {
	results := make([]Result, len(chunk))
	if d.prices == nil {
		for j := range results {
			results[j] = Result{Outcome: OutcomeTerminalFailure, Err: fmt.Errorf("no price mutator configured")}
		}
		return results
	}

	var g errgroup.Group
	for j, update := range chunk {
		g.Go(func() error {
			results[j] = d.cfg.Retry.Do(ctx, func(ctx context.Context) error {
				return d.prices.UpdateVariantPrice(ctx, update)
			}, func(attempt int, err error, wait time.Duration) {
				d.logger.Warn("Price update failed, retrying",
					zap.String("variant_id", update.VariantID),
					zap.Int("attempt", attempt),
					zap.Duration("wait", wait),
					zap.Error(err),
				)
			})
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func remaining[T any](chunks [][]T) int {
	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	return n
}
