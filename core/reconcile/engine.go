package reconcile

import (
	"context"
	"fmt"
	"iter"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// feedBuffer bounds how far the feed reader runs ahead of the catalog fetch.
const feedBuffer = 1024

// Spec bundles everything one reconciliation run needs.
type Spec struct {
	// RunID identifies the run in logs and reports.
	RunID string

	// Adapter provides mode-specific parsing and diffing.
	Adapter Adapter

	// Catalog lists the remote catalog.
	Catalog CatalogSource

	// PageSize is the listing page size. Zero means DefaultPageSize.
	PageSize int

	// FeedPath is the local vendor feed file.
	FeedPath string

	// Feed controls feed tokenisation.
	Feed FeedOptions

	// Dispatcher sends the resulting mutations.
	Dispatcher *Dispatcher

	// DryRun is copied into the report; the dispatcher decides what it means.
	DryRun bool

	Logger *zap.Logger
}

type rowResult struct {
	row Row
	err error
}

// Run executes one reconciliation: the catalog fetch and the feed read run in
// parallel, the delta join waits for the full snapshot, then the dispatcher
// drains every mutation.
//
// Only a feed that cannot be opened or a cancelled context is returned as an
// error. Fetch, parse and dispatch failures are reflected in the report.
func Run(ctx context.Context, spec *Spec) (*RunReport, error) {
	if spec.Adapter == nil || spec.Catalog == nil || spec.Dispatcher == nil {
		return nil, fmt.Errorf("reconcile spec requires adapter, catalog and dispatcher")
	}
	logger := spec.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	report := &RunReport{
		RunID:     spec.RunID,
		Mode:      spec.Adapter.Mode(),
		DryRun:    spec.DryRun,
		StartedAt: time.Now().UTC(),
	}

	feed, err := OpenFeed(spec.FeedPath, spec.Feed)
	if err != nil {
		return nil, err
	}
	defer feed.Close()

	g, gctx := errgroup.WithContext(ctx)

	var (
		snapshot   *Snapshot
		fetchStats FetchStats
		fetched    = make(chan struct{})
		rows       = make(chan rowResult, feedBuffer)
	)

	g.Go(func() error {
		defer close(fetched)
		logger.Info("Fetching catalog")
		snapshot, fetchStats = FetchAll(gctx, spec.Catalog, spec.PageSize, logger)
		logger.Info("Catalog fetched",
			zap.Int("pages", fetchStats.Pages),
			zap.Int("products", fetchStats.Products),
			zap.Int("variants", fetchStats.Variants),
			zap.Bool("complete", fetchStats.Complete),
		)
		return nil
	})

	g.Go(func() error {
		defer close(rows)
		for row, err := range feed.Rows() {
			select {
			case rows <- rowResult{row: row, err: err}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	select {
	case <-fetched:
	case <-gctx.Done():
	}

	var deltaStats DeltaStats
	var mutations []Mutation
	if ctx.Err() == nil {
		idx := BuildIndex(snapshot)
		mutations, deltaStats = ComputeDeltasIndexed(channelRows(rows), idx, spec.Adapter, logger)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.applyFetch(fetchStats)
	report.applyDelta(deltaStats)
	logger.Info("Deltas computed",
		zap.Int("rows_read", deltaStats.RowsRead),
		zap.Int("rows_skipped", deltaStats.RowsSkipped),
		zap.Int("rows_unmatched", deltaStats.RowsUnmatched),
		zap.Int("ineligible", deltaStats.Ineligible),
		zap.Int("mutations", deltaStats.Mutations),
	)

	dispatchStats := spec.Dispatcher.Dispatch(ctx, mutations)
	report.applyDispatch(dispatchStats)
	report.finish(time.Now().UTC())

	logger.Info("Reconciliation finished",
		zap.String("status", report.Status),
		zap.Int("dispatched", report.Dispatched),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration()),
	)
	return report, nil
}

// channelRows drains ch as a sequence. It keeps draining after the consumer
// stops so the producer never blocks on a full buffer.
func channelRows(ch <-chan rowResult) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		stopped := false
		for r := range ch {
			if stopped {
				continue
			}
			if !yield(r.row, r.err) {
				stopped = true
			}
		}
	}
}
