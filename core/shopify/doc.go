// Package shopify is a small Admin API client covering what catalog
// reconciliation needs: the paginated REST product listing and the GraphQL
// inventory and variant price mutations.
//
// Errors carry enough information for the retry policy: *APIError reports
// Retryable() for throttling and server failures, *UserErrors never does.
package shopify
