// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client. The sync service uses it for two things: pulling
// vendor feed files that were dropped into a bucket (the object-store transfer
// source) and archiving the JSON report of every run.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Helpers
//
//   - EnsureBucket: creates the bucket on first use.
//   - PutJSON: uploads a value as an indented JSON object.
//   - Download: streams an object to a local file, removing partial files on failure.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.PutJSON(ctx, client, cfg.Storage.Bucket, "reports/inventory/run.json", report)
package storage
