package runs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"catalog-sync/core/history"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/transfer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeCatalog struct {
	products []reconcile.Product
	calls    atomic.Int32
	delay    time.Duration
}

func (f *fakeCatalog) ListProducts(ctx context.Context, cursor string, limit int) (reconcile.Page, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return reconcile.Page{Products: f.products}, nil
}

type fakeInventory struct {
	mu    sync.Mutex
	calls [][]reconcile.InventoryDelta
}

func (f *fakeInventory) AdjustInventory(ctx context.Context, changes []reconcile.InventoryDelta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, changes)
	return nil
}

type fakePrices struct {
	mu      sync.Mutex
	updates []reconcile.PriceUpdate
}

func (f *fakePrices) UpdateVariantPrice(ctx context.Context, u reconcile.PriceUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, u)
	return nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{products: []reconcile.Product{{ID: "10", Variants: []reconcile.Variant{
		{ID: "v1", SKU: "ABC", InventoryItemID: "1", ObservedQuantity: 5, ObservedPrice: decimal.RequireFromString("10.00")},
	}}}}
}

func testHistory(t *testing.T) *history.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	repo := history.NewRepository(db)
	require.NoError(t, repo.Migrate())
	return repo
}

// testDeps returns deps reading feeds from dir, with pacing and retries disabled.
func testDeps(t *testing.T, dir string) (Deps, *fakeInventory, *fakePrices) {
	t.Helper()
	inv := &fakeInventory{}
	prices := &fakePrices{}
	return Deps{
		Catalog:   testCatalog(),
		Inventory: inv,
		Prices:    prices,
		Source:    &transfer.LocalSource{Dir: dir},
		Vendor: transfer.Config{
			InventoryPath:    "TOTAL.TXT",
			PricePath:        "PRICE.TXT",
			PriceSKUColumn:   0,
			PriceValueColumn: 1,
		},
		Sync: reconcile.Config{
			LocationID:       "77",
			MarginFactor:     "1.15",
			Delimiter:        ",",
			PricePacingMs:    0,
			RetryMaxAttempts: 1,
		},
		History: testHistory(t),
	}, inv, prices
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
