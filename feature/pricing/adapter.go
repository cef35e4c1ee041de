package pricing

import (
	"fmt"
	"strings"

	"catalog-sync/core/reconcile"

	"github.com/shopspring/decimal"
)

// pricePlaces is the precision prices are compared and sent with.
const pricePlaces = 2

// Adapter reconciles vendor cost prices against variant retail prices.
type Adapter struct {
	margin decimal.Decimal
}

// NewAdapter creates an adapter applying margin to every vendor price.
func NewAdapter(margin decimal.Decimal) *Adapter {
	return &Adapter{margin: margin}
}

// Mode returns reconcile.ModePrice.
func (a *Adapter) Mode() reconcile.Mode {
	return reconcile.ModePrice
}

// ParseRecord reads the value column as a non-negative decimal price.
func (a *Adapter) ParseRecord(row reconcile.Row) (reconcile.FeedRecord, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(row.Value))
	if err != nil {
		return reconcile.FeedRecord{}, &reconcile.ParseError{Line: row.Line, Reason: fmt.Sprintf("invalid price %q", row.Value), Err: err}
	}
	if price.IsNegative() {
		return reconcile.FeedRecord{}, &reconcile.ParseError{Line: row.Line, Reason: fmt.Sprintf("negative price %q", row.Value)}
	}
	return reconcile.FeedRecord{Line: row.Line, SKU: row.SKU, Price: price}, nil
}

// RetailPrice is round(vendor, 2) * margin. The product is then rounded to
// pricePlaces, the precision the platform stores and compares prices with, so
// 19.999 at a margin of 1.15 gives 23.00.
func (a *Adapter) RetailPrice(vendor decimal.Decimal) decimal.Decimal {
	return vendor.Round(pricePlaces).Mul(a.margin).Round(pricePlaces)
}

// Eligible reports whether the variant has an id the update can address.
func (a *Adapter) Eligible(v reconcile.Variant) bool {
	return v.ID != ""
}

// Diff emits a price update when the retail price differs from the observed one.
func (a *Adapter) Diff(rec reconcile.FeedRecord, v reconcile.Variant) (reconcile.Mutation, bool) {
	price := a.RetailPrice(rec.Price)
	if !a.Eligible(v) || price.Equal(v.ObservedPrice.Round(pricePlaces)) {
		return nil, false
	}
	return reconcile.PriceUpdate{VariantID: v.ID, NewPrice: price, SKU: v.SKU}, true
}
