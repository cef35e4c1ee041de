package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPrices tracks calls and peak concurrency. failures maps a variant
// to the errors returned on its successive attempts.
type recordingPrices struct {
	mu       sync.Mutex
	active   int
	peak     int
	calls    map[string]int
	starts   []time.Time
	failures map[string][]error
}

func (r *recordingPrices) UpdateVariantPrice(ctx context.Context, u PriceUpdate) error {
	r.mu.Lock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[u.VariantID]++
	attempt := r.calls[u.VariantID]
	r.active++
	r.peak = max(r.peak, r.active)
	r.starts = append(r.starts, time.Now())
	var err error
	if errs := r.failures[u.VariantID]; attempt <= len(errs) {
		err = errs[attempt-1]
	}
	r.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	r.mu.Lock()
	r.active--
	r.mu.Unlock()
	return err
}

func makeDeltas(n int) []InventoryDelta {
	deltas := make([]InventoryDelta, n)
	for i := range deltas {
		deltas[i] = InventoryDelta{InventoryItemID: fmt.Sprintf("%d", i+1), LocationID: "loc", Delta: i + 1}
	}
	return deltas
}

func makeUpdates(n int) []PriceUpdate {
	updates := make([]PriceUpdate, n)
	for i := range updates {
		updates[i] = PriceUpdate{VariantID: fmt.Sprintf("v%d", i+1), NewPrice: decimal.NewFromInt(int64(i + 1))}
	}
	return updates
}

func testDispatchConfig() DispatchConfig {
	cfg := DefaultDispatchConfig()
	cfg.PricePacing = 0
	cfg.Retry = fastPolicy(3)
	return cfg
}

func TestChunk(t *testing.T) {
	chunks := Chunk([]int{1, 2, 3, 4, 5, 6, 7}, 3)
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}, chunks)

	assert.Nil(t, Chunk([]int{}, 3))
	assert.Nil(t, Chunk([]int{1}, 0))

	// Appending to one chunk must not overwrite the next.
	chunks[0] = append(chunks[0], 99)
	assert.Equal(t, []int{4, 5, 6}, chunks[1])
}

func TestDispatchInventory_ChunksOfFifty(t *testing.T) {
	for _, m := range []int{1, 50, 51, 120} {
		t.Run(fmt.Sprint(m), func(t *testing.T) {
			inv := &recordingInventory{}
			d := NewDispatcher(testDispatchConfig(), inv, nil, nil)
			deltas := makeDeltas(m)

			stats := d.DispatchInventory(context.Background(), deltas)

			wantChunks := (m + 49) / 50
			require.Len(t, inv.calls, wantChunks)
			assert.Equal(t, wantChunks, stats.Chunks)
			assert.Equal(t, m, stats.Dispatched)

			var flattened []InventoryDelta
			for i, call := range inv.calls {
				if i < len(inv.calls)-1 {
					assert.Len(t, call, 50)
				}
				flattened = append(flattened, call...)
			}
			assert.Equal(t, deltas, flattened, "order preserved across chunks")
		})
	}
}

func TestDispatchInventory_FailedChunkIsNotRetried(t *testing.T) {
	inv := &recordingInventory{failOn: map[int]error{2: errors.New("userErrors: invalid location")}}
	d := NewDispatcher(testDispatchConfig(), inv, nil, nil)

	stats := d.DispatchInventory(context.Background(), makeDeltas(120))

	assert.Len(t, inv.calls, 3, "remaining chunks still sent")
	assert.Equal(t, 3, stats.Chunks)
	assert.Equal(t, 70, stats.Dispatched)
	assert.Equal(t, 50, stats.Failed)
	require.Len(t, stats.Errors, 1)

	var berr *BatchMutationError
	require.ErrorAs(t, stats.Errors[0], &berr)
	assert.Equal(t, 2, berr.Chunk)
	assert.Equal(t, 50, berr.Size)
}

func TestDispatchInventory_CancelledContext(t *testing.T) {
	inv := &recordingInventory{}
	d := NewDispatcher(testDispatchConfig(), inv, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := d.DispatchInventory(ctx, makeDeltas(60))

	assert.Empty(t, inv.calls)
	assert.Equal(t, 60, stats.Failed)
}

func TestDispatchPrices_ChunkConcurrencyAndRetries(t *testing.T) {
	prices := &recordingPrices{failures: map[string][]error{
		"v2": {errors.New("429 throttled"), errors.New("429 throttled")},
	}}
	d := NewDispatcher(testDispatchConfig(), nil, prices, nil)

	stats := d.DispatchPrices(context.Background(), makeUpdates(12))

	assert.Equal(t, 3, stats.Chunks)
	assert.Equal(t, []int{5, 5, 2}, stats.ChunkSizes)
	assert.Equal(t, 12, stats.Dispatched)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 2, stats.Retries)
	assert.Equal(t, 3, prices.calls["v2"])
	assert.LessOrEqual(t, prices.peak, 5, "never more than one chunk in flight")
	assert.Greater(t, prices.peak, 1, "updates within a chunk run concurrently")
}

func TestDispatchPrices_TerminalFailureIsIsolated(t *testing.T) {
	prices := &recordingPrices{failures: map[string][]error{
		"v1": {classified{retry: false}},
		"v3": {errors.New("503"), errors.New("503"), errors.New("503")},
	}}
	d := NewDispatcher(testDispatchConfig(), nil, prices, nil)

	stats := d.DispatchPrices(context.Background(), makeUpdates(4))

	assert.Equal(t, 2, stats.Dispatched)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 1, prices.calls["v1"])
	assert.Equal(t, 3, prices.calls["v3"], "retried up to the policy limit")
	assert.Len(t, stats.Errors, 2)
}

func TestDispatchPrices_PacingBetweenChunks(t *testing.T) {
	cfg := testDispatchConfig()
	cfg.PricePacing = 40 * time.Millisecond
	prices := &recordingPrices{}
	d := NewDispatcher(cfg, nil, prices, nil)

	start := time.Now()
	stats := d.DispatchPrices(context.Background(), makeUpdates(11))

	assert.Equal(t, 3, stats.Chunks)
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestDispatch_DryRunSendsNothing(t *testing.T) {
	cfg := testDispatchConfig()
	cfg.DryRun = true
	cfg.PricePacing = time.Hour
	inv := &recordingInventory{}
	prices := &recordingPrices{}
	d := NewDispatcher(cfg, inv, prices, nil)

	var mutations []Mutation
	for _, m := range makeDeltas(51) {
		mutations = append(mutations, m)
	}
	for _, u := range makeUpdates(6) {
		mutations = append(mutations, u)
	}

	stats := d.Dispatch(context.Background(), mutations)

	assert.Empty(t, inv.calls)
	assert.Empty(t, prices.calls)
	assert.Equal(t, 4, stats.Chunks)
	assert.Equal(t, 57, stats.Dispatched)
}

func TestDispatch_MissingMutator(t *testing.T) {
	d := NewDispatcher(testDispatchConfig(), nil, nil, nil)

	stats := d.Dispatch(context.Background(), []Mutation{
		InventoryDelta{InventoryItemID: "1", Delta: 1},
		PriceUpdate{VariantID: "v1"},
	})

	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 0, stats.Dispatched)
}
