// Package inventory is the quantity reconciliation mode: feed rows carry a
// unit count and each matched variant receives the delta to that count at the
// configured location.
package inventory
