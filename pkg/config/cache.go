package config

import (
	"fmt"
	"strings"
	"time"
)

// CacheConfig controls the featured products snapshot.
// A zero FeaturedTTL keeps the snapshot until the next explicit refresh.
type CacheConfig struct {
	FeaturedKey string        `koanf:"featuredkey"`
	FeaturedTTL time.Duration `koanf:"featuredttl"`
}

const defaultFeaturedKey = "featured_products"

// String returns a string representation of the cache configuration.
func (c *CacheConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Cache ---\n")
	b.WriteString(fmt.Sprintf("  featuredkey: %s\n", c.FeaturedKey))
	b.WriteString(fmt.Sprintf("  featuredttl: %s\n", c.FeaturedTTL))
	return b.String()
}

func (c *CacheConfig) Validate() error {
	if c.FeaturedTTL < 0 {
		return fmt.Errorf("cache featured ttl must not be negative")
	}
	if c.FeaturedKey == "" {
		c.FeaturedKey = defaultFeaturedKey
	}
	return nil
}
