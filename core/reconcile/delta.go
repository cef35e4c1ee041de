package reconcile

import (
	"iter"
	"slices"

	"go.uber.org/zap"
)

// DeltaStats counts how feed rows were resolved against the catalog.
type DeltaStats struct {
	RowsRead      int
	RowsSkipped   int
	RowsUnmatched int
	Matched       int
	Unchanged     int
	Ineligible    int
	Mutations     int
}

// ComputeDeltas joins feed rows against the snapshot and returns the mutations to dispatch.
func ComputeDeltas(rows iter.Seq2[Row, error], snapshot *Snapshot, adapter Adapter, logger *zap.Logger) ([]Mutation, DeltaStats) {
	return ComputeDeltasIndexed(rows, BuildIndex(snapshot), adapter, logger)
}

// ComputeDeltasIndexed is ComputeDeltas over a prebuilt index.
// Every variant sharing a record's SKU is diffed independently.
func ComputeDeltasIndexed(rows iter.Seq2[Row, error], idx Index, adapter Adapter, logger *zap.Logger) ([]Mutation, DeltaStats) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		mutations []Mutation
		stats     DeltaStats
	)
	filter, _ := adapter.(VariantFilter)

	for row, err := range rows {
		stats.RowsRead++
		if err != nil {
			stats.RowsSkipped++
			logger.Warn("Skipping feed row", zap.Error(err))
			continue
		}

		rec, err := adapter.ParseRecord(row)
		if err != nil {
			stats.RowsSkipped++
			logger.Warn("Skipping feed row", zap.Int("line", row.Line), zap.String("sku", row.SKU), zap.Error(err))
			continue
		}

		variants := idx.Lookup(rec.SKU)
		if len(variants) == 0 {
			stats.RowsUnmatched++
			continue
		}

		for _, v := range variants {
			stats.Matched++
			if filter != nil && !filter.Eligible(v) {
				stats.Ineligible++
				logger.Warn("Variant cannot be reconciled", zap.String("variant_id", v.ID), zap.String("sku", v.SKU))
				continue
			}
			m, changed := adapter.Diff(rec, v)
			if !changed {
				stats.Unchanged++
				continue
			}
			mutations = append(mutations, m)
		}
	}

	stats.Mutations = len(mutations)
	return slices.Clip(mutations), stats
}

// SliceRows turns an in-memory list of rows into a sequence. Useful for callers
// that already hold parsed rows.
func SliceRows(rows []Row) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for _, r := range rows {
			if !yield(r, nil) {
				return
			}
		}
	}
}
