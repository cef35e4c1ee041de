package shopify

import (
	"fmt"
	"strings"
)

// Config holds configuration for the Shopify Admin API client.
type Config struct {
	// Shop is the store handle, as in {shop}.myshopify.com.
	Shop string `mapstructure:"shop" default:""`
	// AccessToken is the Admin API access token.
	AccessToken string `mapstructure:"access_token" default:""`
	// APIVersion is the Admin API version used for every call.
	APIVersion string `mapstructure:"api_version" default:"2023-07"`
	// BaseURL overrides https://{shop}.myshopify.com, mainly for tests and proxies.
	BaseURL string `mapstructure:"base_url" default:""`
	// PageSize is the product listing page size (max 250).
	PageSize int `mapstructure:"page_size" default:"250"`
	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Validate checks that the client can be built from this configuration.
func (c Config) Validate() error {
	if c.Shop == "" && c.BaseURL == "" {
		return fmt.Errorf("shopify shop or base_url is required")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("shopify access_token is required")
	}
	if c.APIVersion == "" {
		return fmt.Errorf("shopify api_version is required")
	}
	if c.PageSize < 0 || c.PageSize > 250 {
		return fmt.Errorf("shopify page_size must be between 1 and 250, got %d", c.PageSize)
	}
	return nil
}

// AdminURL returns the versioned Admin API root, without a trailing slash.
func (c Config) AdminURL() string {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.myshopify.com", c.Shop)
	}
	return base + "/admin/api/" + c.APIVersion
}
