// Package pricing is the price reconciliation mode.
//
// The retail price of a variant is the vendor price rounded to cents times
// the margin factor, rounded to cents again:
//
//	19.999 -> 20.00 * 1.15 -> 23.00
//
// A PriceUpdate is only produced when that value differs from the price the
// catalog already shows.
package pricing
