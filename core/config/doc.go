// Package config provides configuration management for catalog-sync.
//
// Values come from environment variables, optionally seeded from a .env file.
// Every key has a default declared on the owning package's Config struct.
//
// # Configuration Structure
//
//   - Server: HTTP API port, API key, whether runs may be triggered over HTTP
//   - Log: level and format
//   - Database: run history connection (mysql or sqlite)
//   - Storage: MinIO bucket for vendor feeds and archived reports
//   - Shopify: shop, access token, API version
//   - Vendor: feed protocol (sftp, s3, local), host credentials and paths
//   - Sync: location, margin factor, feed delimiter, batching and retry limits
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Shopify.APIVersion)
package config
