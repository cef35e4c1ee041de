package transfer

import (
	"fmt"
	"strings"
	"time"
)

// Supported values of Config.Protocol.
const (
	ProtocolSFTP  = "sftp"
	ProtocolS3    = "s3"
	ProtocolLocal = "local"
)

// Config holds configuration for retrieving vendor feeds.
type Config struct {
	// Protocol selects the feed source: sftp, s3 or local.
	Protocol string `mapstructure:"protocol" default:"local"`
	// Host is the vendor SFTP host.
	Host string `mapstructure:"host" default:""`
	// Port is the vendor SFTP port.
	Port int `mapstructure:"port" default:"22"`
	// User is the SFTP login.
	User string `mapstructure:"user" default:""`
	// Password is the SFTP password.
	Password string `mapstructure:"password" default:""`
	// KnownHosts is an OpenSSH known_hosts file. Empty disables host key checking.
	KnownHosts string `mapstructure:"known_hosts" default:""`
	// TimeoutSeconds bounds the SSH handshake.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// InventoryPath is the remote path (or object name) of the quantity feed.
	InventoryPath string `mapstructure:"inventory_path" default:"/TOTAL.TXT"`
	// PricePath is the remote path (or object name) of the price feed.
	PricePath string `mapstructure:"price_path" default:"/PRICE.ZIP"`
	// LocalDir is where retrieved feeds are written.
	LocalDir string `mapstructure:"local_dir" default:"data"`
	// Unzip extracts .zip feeds after retrieval.
	Unzip bool `mapstructure:"unzip" default:"true"`
	// PriceSKUColumn is the SKU column of the raw price file. The vendor price
	// list carries the part number in column 1.
	PriceSKUColumn int `mapstructure:"price_sku_column" default:"1"`
	// PriceValueColumn is the price column of the raw price file (vendor column 14).
	PriceValueColumn int `mapstructure:"price_value_column" default:"14"`
	// PriceBrandColumn is the manufacturer column used by PriceBrands (vendor column 3).
	PriceBrandColumn int `mapstructure:"price_brand_column" default:"3"`
	// PriceBrands is a comma separated list; only rows whose brand column contains one are kept.
	// "*" keeps every brand. With price_sku_column=0, price_value_column=1 and "*" the file is used as is.
	PriceBrands string `mapstructure:"price_brands" default:"LENOVO,ALOGIC,JABRA,LOGITECH"`
}

// Validate checks the protocol and the fields it needs.
func (c Config) Validate() error {
	switch c.Protocol {
	case ProtocolSFTP:
		if c.Host == "" || c.User == "" {
			return fmt.Errorf("vendor sftp requires host and user")
		}
	case ProtocolS3, ProtocolLocal:
	default:
		return fmt.Errorf("unsupported vendor protocol: %q", c.Protocol)
	}
	return nil
}

// Timeout returns the handshake timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Brands returns the trimmed, non-empty entries of PriceBrands, or nil when
// every brand is kept.
func (c Config) Brands() []string {
	var brands []string
	for _, b := range strings.Split(c.PriceBrands, ",") {
		b = strings.TrimSpace(b)
		if b == "*" {
			return nil
		}
		if b != "" {
			brands = append(brands, b)
		}
	}
	return brands
}

// InventoryJob describes how to retrieve the quantity feed.
func (c Config) InventoryJob() Job {
	return Job{RemotePath: c.InventoryPath, Unzip: c.Unzip}
}

// PriceJob describes how to retrieve the price feed. A projection is attached
// when the raw file needs its columns rearranged or its rows filtered.
func (c Config) PriceJob() Job {
	job := Job{RemotePath: c.PricePath, Unzip: c.Unzip}
	brands := c.Brands()
	if len(brands) > 0 || c.PriceSKUColumn != 0 || c.PriceValueColumn != 1 {
		job.Projection = &Projection{
			SKUColumn:    c.PriceSKUColumn,
			ValueColumn:  c.PriceValueColumn,
			FilterColumn: c.PriceBrandColumn,
			FilterAny:    brands,
		}
	}
	return job
}
