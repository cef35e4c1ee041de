package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"catalog-sync/core/reconcile"
)

// Adapter reconciles vendor stock quantities against variant inventory levels.
type Adapter struct {
	locationID string
}

// NewAdapter creates an adapter that adjusts stock at locationID.
func NewAdapter(locationID string) *Adapter {
	return &Adapter{locationID: locationID}
}

// Mode returns reconcile.ModeInventory.
func (a *Adapter) Mode() reconcile.Mode {
	return reconcile.ModeInventory
}

// ParseRecord reads the value column as a whole number of units.
func (a *Adapter) ParseRecord(row reconcile.Row) (reconcile.FeedRecord, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(row.Value))
	if err != nil {
		return reconcile.FeedRecord{}, &reconcile.ParseError{Line: row.Line, Reason: fmt.Sprintf("invalid quantity %q", row.Value), Err: err}
	}
	return reconcile.FeedRecord{Line: row.Line, SKU: row.SKU, Quantity: qty}, nil
}

// Eligible reports whether the variant has an inventory item to adjust.
func (a *Adapter) Eligible(v reconcile.Variant) bool {
	return v.InventoryItemID != ""
}

// Diff emits the signed change that brings the observed quantity to the feed quantity.
func (a *Adapter) Diff(rec reconcile.FeedRecord, v reconcile.Variant) (reconcile.Mutation, bool) {
	if rec.Quantity == v.ObservedQuantity || !a.Eligible(v) {
		return nil, false
	}
	return reconcile.InventoryDelta{
		InventoryItemID: v.InventoryItemID,
		LocationID:      a.locationID,
		Delta:           rec.Quantity - v.ObservedQuantity,
		SKU:             v.SKU,
	}, true
}
