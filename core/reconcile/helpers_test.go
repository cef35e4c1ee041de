package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// quantityAdapter is a minimal quantity-mode adapter for engine tests.
type quantityAdapter struct {
	location string
}

func (a quantityAdapter) Mode() Mode { return ModeInventory }

func (a quantityAdapter) ParseRecord(row Row) (FeedRecord, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(row.Value))
	if err != nil {
		return FeedRecord{}, err
	}
	return FeedRecord{Line: row.Line, SKU: row.SKU, Quantity: qty}, nil
}

func (a quantityAdapter) Diff(rec FeedRecord, v Variant) (Mutation, bool) {
	if rec.Quantity == v.ObservedQuantity {
		return nil, false
	}
	return InventoryDelta{
		InventoryItemID: v.InventoryItemID,
		LocationID:      a.location,
		Delta:           rec.Quantity - v.ObservedQuantity,
		SKU:             v.SKU,
	}, true
}

// pagedSource serves fixed pages addressed by cursor "p2", "p3", ...
type pagedSource struct {
	mu       sync.Mutex
	pages    []Page
	failAt   int // 1-based page that returns an error; 0 never fails
	requests []string
	limits   []int
}

func (s *pagedSource) ListProducts(ctx context.Context, cursor string, limit int) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, cursor)
	s.limits = append(s.limits, limit)

	n := 1
	if cursor != "" {
		parsed, err := strconv.Atoi(strings.TrimPrefix(cursor, "p"))
		if err != nil {
			return Page{}, fmt.Errorf("bad cursor %q", cursor)
		}
		n = parsed
	}
	if n == s.failAt {
		return Page{}, fmt.Errorf("HTTP 502 on page %d", n)
	}
	return s.pages[n-1], nil
}

func makePages(n int) []Page {
	pages := make([]Page, n)
	for i := range pages {
		pages[i].Products = []Product{{
			ID:       fmt.Sprintf("prod-%d", i+1),
			Variants: []Variant{{ID: fmt.Sprintf("var-%d", i+1), SKU: fmt.Sprintf("SKU-%d", i+1)}},
		}}
		if i < n-1 {
			pages[i].NextCursor = fmt.Sprintf("p%d", i+2)
		}
	}
	return pages
}

// recordingInventory captures every bulk call.
type recordingInventory struct {
	mu     sync.Mutex
	calls  [][]InventoryDelta
	failOn map[int]error // 1-based call number
}

func (r *recordingInventory) AdjustInventory(ctx context.Context, changes []InventoryDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]InventoryDelta(nil), changes...))
	if err, ok := r.failOn[len(r.calls)]; ok {
		return err
	}
	return nil
}

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
