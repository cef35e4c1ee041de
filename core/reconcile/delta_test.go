package reconcile

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogOf(variants ...Variant) *Snapshot {
	return &Snapshot{Products: []Product{{ID: "p1", Variants: variants}}}
}

func TestComputeDeltas_QuantityDifferences(t *testing.T) {
	snapshot := catalogOf(
		Variant{ID: "v1", SKU: "UP", InventoryItemID: "11", ObservedQuantity: 7},
		Variant{ID: "v2", SKU: "DOWN", InventoryItemID: "12", ObservedQuantity: 9},
		Variant{ID: "v3", SKU: "SAME", InventoryItemID: "13", ObservedQuantity: 4},
	)
	rows := SliceRows([]Row{
		{Line: 1, SKU: "UP", Value: "12"},
		{Line: 2, SKU: "DOWN", Value: "3"},
		{Line: 3, SKU: "SAME", Value: "4"},
		{Line: 4, SKU: "GHOST", Value: "100"},
	})

	mutations, stats := ComputeDeltas(rows, snapshot, quantityAdapter{location: "loc"}, nil)

	require.Len(t, mutations, 2)
	assert.Equal(t, InventoryDelta{InventoryItemID: "11", LocationID: "loc", Delta: 5, SKU: "UP"}, mutations[0])
	assert.Equal(t, InventoryDelta{InventoryItemID: "12", LocationID: "loc", Delta: -6, SKU: "DOWN"}, mutations[1])

	assert.Equal(t, DeltaStats{RowsRead: 4, RowsUnmatched: 1, Matched: 3, Unchanged: 1, Mutations: 2}, stats)
}

func TestComputeDeltas_DuplicateSKUsAreAllUpdated(t *testing.T) {
	snapshot := &Snapshot{Products: []Product{
		{ID: "p1", Variants: []Variant{{ID: "v1", SKU: "DUP", InventoryItemID: "1", ObservedQuantity: 1}}},
		{ID: "p2", Variants: []Variant{{ID: "v2", SKU: "DUP", InventoryItemID: "2", ObservedQuantity: 5}}},
	}}

	mutations, stats := ComputeDeltas(SliceRows([]Row{{SKU: "DUP", Value: "5"}}), snapshot, quantityAdapter{}, nil)

	require.Len(t, mutations, 1, "only the variant whose quantity differs")
	assert.Equal(t, "1", mutations[0].Target())
	assert.Equal(t, 2, stats.Matched)
	assert.Equal(t, 1, stats.Unchanged)
}

func TestComputeDeltas_MatchIsCaseSensitive(t *testing.T) {
	snapshot := catalogOf(Variant{SKU: "abc", InventoryItemID: "1", ObservedQuantity: 0})

	mutations, stats := ComputeDeltas(SliceRows([]Row{{SKU: "ABC", Value: "3"}}), snapshot, quantityAdapter{}, nil)

	assert.Empty(t, mutations)
	assert.Equal(t, 1, stats.RowsUnmatched)
}

func TestComputeDeltas_SkipsUnparseableRows(t *testing.T) {
	snapshot := catalogOf(Variant{SKU: "A", InventoryItemID: "1", ObservedQuantity: 0})
	var rows iter.Seq2[Row, error] = func(yield func(Row, error) bool) {
		if !yield(Row{}, &ParseError{Line: 1, Reason: "missing value column"}) {
			return
		}
		if !yield(Row{Line: 2, SKU: "A", Value: "n/a"}, nil) {
			return
		}
		yield(Row{Line: 3, SKU: "A", Value: "2"}, nil)
	}

	mutations, stats := ComputeDeltas(rows, snapshot, quantityAdapter{}, nil)

	assert.Len(t, mutations, 1)
	assert.Equal(t, 3, stats.RowsRead)
	assert.Equal(t, 2, stats.RowsSkipped)
}

func TestComputeDeltas_EmptyCatalog(t *testing.T) {
	mutations, stats := ComputeDeltas(SliceRows([]Row{{SKU: "A", Value: "1"}}), nil, quantityAdapter{}, nil)

	assert.Empty(t, mutations)
	assert.Equal(t, 1, stats.RowsUnmatched)
}

func TestBuildIndex(t *testing.T) {
	snapshot := &Snapshot{Products: []Product{
		{Variants: []Variant{{ID: "1", SKU: "A"}, {ID: "2", SKU: ""}}},
		{Variants: []Variant{{ID: "3", SKU: "A"}, {ID: "4", SKU: "B"}}},
	}}

	idx := BuildIndex(snapshot)

	assert.Len(t, idx, 2)
	assert.Equal(t, []string{"1", "3"}, []string{idx.Lookup("A")[0].ID, idx.Lookup("A")[1].ID})
	assert.Nil(t, idx.Lookup("missing"))
}

func TestParseErrorUnwrap(t *testing.T) {
	inner := errors.New("bare quote")
	err := &ParseError{Line: 4, Reason: "malformed row", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "feed line 4: malformed row: bare quote", err.Error())
}

// itemRequired only reconciles variants that carry an inventory item.
type itemRequired struct{ quantityAdapter }

func (itemRequired) Eligible(v Variant) bool { return v.InventoryItemID != "" }

func TestComputeDeltas_IneligibleVariantsAreCountedApart(t *testing.T) {
	snapshot := catalogOf(
		Variant{ID: "v1", SKU: "A", InventoryItemID: "1", ObservedQuantity: 1},
		Variant{ID: "v2", SKU: "A", ObservedQuantity: 1},
		Variant{ID: "v3", SKU: "B", InventoryItemID: "3", ObservedQuantity: 2},
	)

	mutations, stats := ComputeDeltas(SliceRows([]Row{
		{Line: 1, SKU: "A", Value: "5"},
		{Line: 2, SKU: "B", Value: "2"},
	}), snapshot, itemRequired{quantityAdapter{location: "loc"}}, nil)

	require.Len(t, mutations, 1)
	assert.Equal(t, "1", mutations[0].(InventoryDelta).InventoryItemID)
	assert.Equal(t, DeltaStats{RowsRead: 2, Matched: 3, Unchanged: 1, Ineligible: 1, Mutations: 1}, stats)
}
