package reconcile

import "context"

// Adapter defines the mode-specific part of a reconciliation.
// Each adapter knows how to parse the feed value column and how to turn a
// matched (record, variant) pair into a mutation.
type Adapter interface {
	// Mode returns the run mode this adapter implements.
	Mode() Mode

	// ParseRecord converts a raw feed row into a typed record.
	// A returned error causes the row to be counted as skipped.
	ParseRecord(row Row) (FeedRecord, error)

	// Diff compares a record against one matched variant. It returns false when
	// the variant already carries the feed value, so no-op mutations are never emitted.
	Diff(rec FeedRecord, v Variant) (Mutation, bool)
}

// VariantFilter is implemented by adapters that cannot act on every variant.
// Rejected variants are counted as ineligible and never diffed.
type VariantFilter interface {
	Eligible(v Variant) bool
}

// CatalogSource lists the remote catalog one page at a time.
type CatalogSource interface {
	// ListProducts returns the page addressed by cursor; an empty cursor requests the first page.
	ListProducts(ctx context.Context, cursor string, limit int) (Page, error)
}

// InventoryMutator submits one bulk inventory adjustment.
type InventoryMutator interface {
	AdjustInventory(ctx context.Context, changes []InventoryDelta) error
}

// PriceMutator submits a single variant price update.
type PriceMutator interface {
	UpdateVariantPrice(ctx context.Context, update PriceUpdate) error
}
