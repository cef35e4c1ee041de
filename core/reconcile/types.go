package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects which feed column semantics and mutation kind a run uses.
type Mode string

const (
	// ModeInventory treats the feed value as an on-hand quantity.
	ModeInventory Mode = "inventory"
	// ModePrice treats the feed value as a vendor cost price.
	ModePrice Mode = "prices"
)

// ParseMode validates a mode name received from the CLI or HTTP API.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeInventory, ModePrice:
		return Mode(s), true
	default:
		return "", false
	}
}

// Variant is a sellable variant of a remote product as observed at fetch time.
type Variant struct {
	// ID is the platform variant id.
	ID string `json:"id"`

	// SKU is the join key against feed rows. Matching is exact and case-sensitive.
	SKU string `json:"sku"`

	// InventoryItemID identifies the stock record backing this variant.
	InventoryItemID string `json:"inventory_item_id"`

	// ObservedQuantity is the on-hand quantity reported by the platform.
	ObservedQuantity int `json:"observed_quantity"`

	// ObservedPrice is the current sale price reported by the platform.
	ObservedPrice decimal.Decimal `json:"observed_price"`
}

// Product owns an ordered list of variants.
type Product struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
}

// Snapshot is the in-memory copy of the remote catalog for one run.
// It is built once by FetchAll and treated as read-only afterwards.
type Snapshot struct {
	Products []Product `json:"products"`
}

// VariantCount returns the number of variants across all products.
func (s *Snapshot) VariantCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, p := range s.Products {
		n += len(p.Variants)
	}
	return n
}

// Page is one response of the paginated catalog listing.
type Page struct {
	Products []Product

	// NextCursor is the opaque token for the following page; empty on the last page.
	NextCursor string
}

// Row is one raw feed line: the trimmed identifier column and the untouched value column.
type Row struct {
	Line  int
	SKU   string
	Value string
}

// FeedRecord is a parsed feed row. Only the field matching the run mode is set.
type FeedRecord struct {
	Line     int
	SKU      string
	Quantity int
	Price    decimal.Decimal
}

// MutationKind distinguishes the two mutation descriptor types.
type MutationKind string

const (
	KindInventoryDelta MutationKind = "inventory_delta"
	KindPriceUpdate    MutationKind = "price_update"
)

// Mutation is a change to push to the remote platform.
type Mutation interface {
	Kind() MutationKind
	// Target returns the remote id the mutation applies to.
	Target() string
}

// InventoryDelta adjusts the available quantity of an inventory item at a location.
type InventoryDelta struct {
	InventoryItemID string `json:"inventory_item_id"`
	LocationID      string `json:"location_id"`
	Delta           int    `json:"delta"`
	SKU             string `json:"sku"`
}

func (InventoryDelta) Kind() MutationKind { return KindInventoryDelta }
func (d InventoryDelta) Target() string { return d.InventoryItemID }

// PriceUpdate sets the absolute sale price of a variant.
type PriceUpdate struct {
	VariantID string          `json:"variant_id"`
	NewPrice  decimal.Decimal `json:"new_price"`
	SKU       string          `json:"sku"`
}

func (PriceUpdate) Kind() MutationKind { return KindPriceUpdate }
func (u PriceUpdate) Target() string { return u.VariantID }

// Outcome is the final state of a single mutation submission.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeRetryableFailure
	OutcomeTerminalFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeRetryableFailure:
		return "retryable_failure"
	case OutcomeTerminalFailure:
		return "terminal_failure"
	default:
		return "unknown"
	}
}

// Run status values reported in RunReport.Status.
const (
	StatusSuccess  = "success"
	StatusDegraded = "degraded"
)

// RunReport aggregates what happened during one reconciliation run.
// A run is a success only when the catalog was fetched completely, every
// feed row parsed, and every planned mutation was dispatched.
type RunReport struct {
	RunID      string    `json:"run_id"`
	Mode       Mode      `json:"mode"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Catalog fetch
	Pages           int    `json:"pages"`
	Products        int    `json:"products"`
	Variants        int    `json:"variants"`
	CatalogComplete bool   `json:"catalog_complete"`
	FetchError      string `json:"fetch_error,omitempty"`

	// Feed and delta computation
	RowsRead      int `json:"rows_read"`
	RowsSkipped   int `json:"rows_skipped"`
	RowsUnmatched int `json:"rows_unmatched"`
	Matched       int `json:"matched"`
	Unchanged     int `json:"unchanged"`
	Ineligible    int `json:"ineligible"`
	Mutations     int `json:"mutations"`

	// Dispatch
	Chunks     int `json:"chunks"`
	Dispatched int `json:"dispatched"`
	Failed     int `json:"failed"`
	Retries    int `json:"retries"`

	Status string `json:"status"`
}

// Duration returns the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *RunReport) applyFetch(s FetchStats) {
	r.Pages = s.Pages
	r.Products = s.Products
	r.Variants = s.Variants
	r.CatalogComplete = s.Complete
	if s.Err != nil {
		r.FetchError = s.Err.Error()
	}
}

func (r *RunReport) applyDelta(s DeltaStats) {
	r.RowsRead = s.RowsRead
	r.RowsSkipped = s.RowsSkipped
	r.RowsUnmatched = s.RowsUnmatched
	r.Matched = s.Matched
	r.Unchanged = s.Unchanged
	r.Ineligible = s.Ineligible
	r.Mutations = s.Mutations
}

func (r *RunReport) applyDispatch(s DispatchStats) {
	r.Chunks = s.Chunks
	r.Dispatched = s.Dispatched
	r.Failed = s.Failed
	r.Retries = s.Retries
}

func (r *RunReport) finish(now time.Time) {
	r.FinishedAt = now
	if r.CatalogComplete && r.RowsSkipped == 0 && r.Failed == 0 {
		r.Status = StatusSuccess
	} else {
		r.Status = StatusDegraded
	}
}
