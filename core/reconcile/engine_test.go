package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singlePage(variants ...Variant) *pagedSource {
	return &pagedSource{pages: []Page{{Products: []Product{{ID: "p1", Variants: variants}}}}}
}

func TestRun_InventoryEndToEnd(t *testing.T) {
	inv := &recordingInventory{}
	spec := &Spec{
		RunID:      "run-1",
		Adapter:    quantityAdapter{location: "loc-1"},
		Catalog:    singlePage(Variant{ID: "v1", SKU: "ABC", InventoryItemID: "1", ObservedQuantity: 5}),
		FeedPath:   writeFeed(t, "ABC,8\n"),
		Dispatcher: NewDispatcher(testDispatchConfig(), inv, nil, nil),
	}

	report, err := Run(context.Background(), spec)
	require.NoError(t, err)

	require.Len(t, inv.calls, 1)
	assert.Equal(t, []InventoryDelta{{InventoryItemID: "1", LocationID: "loc-1", Delta: 3, SKU: "ABC"}}, inv.calls[0])

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, ModeInventory, report.Mode)
	assert.Equal(t, StatusSuccess, report.Status)
	assert.True(t, report.CatalogComplete)
	assert.Equal(t, 1, report.Mutations)
	assert.Equal(t, 1, report.Chunks)
	assert.Equal(t, 1, report.Dispatched)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
}

func TestRun_MissingFeedAbortsBeforeFetch(t *testing.T) {
	source := singlePage()
	spec := &Spec{
		Adapter:    quantityAdapter{},
		Catalog:    source,
		FeedPath:   filepath.Join(t.TempDir(), "missing.csv"),
		Dispatcher: NewDispatcher(testDispatchConfig(), &recordingInventory{}, nil, nil),
	}

	report, err := Run(context.Background(), spec)

	assert.Nil(t, report)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, source.requests)
}

func TestRun_PartialCatalogIsDegraded(t *testing.T) {
	source := &pagedSource{pages: makePages(3), failAt: 2}
	inv := &recordingInventory{}
	spec := &Spec{
		Adapter:    quantityAdapter{location: "loc"},
		Catalog:    source,
		FeedPath:   writeFeed(t, "SKU-1,4\nSKU-2,4\n"),
		Dispatcher: NewDispatcher(testDispatchConfig(), inv, nil, nil),
	}

	report, err := Run(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, StatusDegraded, report.Status)
	assert.False(t, report.CatalogComplete)
	assert.Contains(t, report.FetchError, "page 2")
	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 1, report.RowsUnmatched)
	require.Len(t, inv.calls, 1)
	assert.Equal(t, "SKU-1", inv.calls[0][0].SKU)
}

func TestRun_SkippedRowsAreDegraded(t *testing.T) {
	spec := &Spec{
		Adapter:    quantityAdapter{},
		Catalog:    singlePage(Variant{SKU: "A", InventoryItemID: "1", ObservedQuantity: 2}),
		FeedPath:   writeFeed(t, "A,2\nB\n"),
		Dispatcher: NewDispatcher(testDispatchConfig(), &recordingInventory{}, nil, nil),
	}

	report, err := Run(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, 1, report.RowsSkipped)
	assert.Equal(t, 0, report.Mutations)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	spec := &Spec{
		Adapter:    quantityAdapter{},
		Catalog:    singlePage(),
		FeedPath:   writeFeed(t, "A,1\n"),
		Dispatcher: NewDispatcher(testDispatchConfig(), &recordingInventory{}, nil, nil),
	}

	_, err := Run(ctx, spec)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_RequiresCollaborators(t *testing.T) {
	_, err := Run(context.Background(), &Spec{})
	assert.Error(t, err)
}
