// Package reconcile implements the catalog reconciliation pipeline: it compares
// a remote product catalog against a vendor feed and pushes the differences back.
//
// A run is made of four stages:
//
// 1. Catalog fetch (FetchAll): walks the paginated listing endpoint, following the
//    opaque next-page cursor until it is exhausted. A failing page stops pagination
//    and the partial snapshot is used; the failure is recorded, not returned.
//
// 2. Feed read (FeedReader): streams a delimited vendor file row by row. Blank lines
//    are skipped and malformed rows are reported per row without ending the stream.
//
// 3. Delta computation (ComputeDeltas): builds a SKU index over the snapshot and
//    asks the mode Adapter to diff every matched variant. Variants that already carry
//    the feed value produce nothing.
//
// 4. Dispatch (Dispatcher): inventory deltas go out in sequential bulk chunks of 50;
//    price updates go out in concurrent chunks of 5 separated by a pacing interval,
//    each update retried under a bounded exponential RetryPolicy.
//
// Stages 1 and 2 run concurrently. Run ties the stages together and returns a
// RunReport with the counters of every stage, so that a degraded run can be told
// apart from a clean one.
//
// # Adapters
//
// The quantity and price semantics live outside this package, in the
// feature/inventory and feature/pricing adapters.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    RunID:      runID,
//	    Adapter:    inventory.NewAdapter(locationID),
//	    Catalog:    shopifyClient,
//	    FeedPath:   "/var/lib/catalog-sync/TOTAL.csv",
//	    Dispatcher: reconcile.NewDispatcher(reconcile.DefaultDispatchConfig(), shopifyClient, shopifyClient, logg),
//	    Logger:     logg,
//	}
//	report, err := reconcile.Run(ctx, spec)
package reconcile
