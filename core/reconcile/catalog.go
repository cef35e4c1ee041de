package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultPageSize is the largest page the listing endpoint accepts.
const DefaultPageSize = 250

// FetchStats describes how a catalog fetch went.
type FetchStats struct {
	Pages    int
	Products int
	Variants int

	// Complete is false when pagination stopped before the last page.
	Complete bool

	// Err is the reason pagination stopped early, if any.
	Err error
}

// FetchAll walks every page of source and returns the collected snapshot.
//
// A failed page request or a repeated cursor stops pagination; the pages
// collected so far are returned and the cause is recorded in FetchStats
// instead of being returned to the caller.
func FetchAll(ctx context.Context, source CatalogSource, pageSize int, logger *zap.Logger) (*Snapshot, FetchStats) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	snapshot := &Snapshot{}
	var stats FetchStats

	seen := map[string]struct{}{"": {}}
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			stats.Err = &FetchError{Page: stats.Pages + 1, Cursor: cursor, Err: err}
			break
		}

		page, err := source.ListProducts(ctx, cursor, pageSize)
		if err != nil {
			stats.Err = &FetchError{Page: stats.Pages + 1, Cursor: cursor, Err: err}
			logger.Error("Catalog page request failed, using partial snapshot",
				zap.Int("page", stats.Pages+1),
				zap.Int("products_collected", len(snapshot.Products)),
				zap.Error(err),
			)
			break
		}

		stats.Pages++
		snapshot.Products = append(snapshot.Products, page.Products...)
		logger.Debug("Fetched catalog page",
			zap.Int("page", stats.Pages),
			zap.Int("products", len(page.Products)),
		)

		if page.NextCursor == "" {
			stats.Complete = true
			break
		}
		if _, dup := seen[page.NextCursor]; dup {
			stats.Err = &FetchError{
				Page:   stats.Pages + 1,
				Cursor: page.NextCursor,
				Err:    fmt.Errorf("%w: %s", ErrCursorLoop, page.NextCursor),
			}
			logger.Warn("Catalog pagination cursor repeated, stopping", zap.Int("page", stats.Pages))
			break
		}
		seen[page.NextCursor] = struct{}{}
		cursor = page.NextCursor
	}

	stats.Products = len(snapshot.Products)
	stats.Variants = snapshot.VariantCount()
	return snapshot, stats
}
