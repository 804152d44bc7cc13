package config

import (
	"fmt"
	"strings"
)

// StorageConfig configures product image uploads to Google Cloud Storage.
// Uploads are disabled when Bucket is empty; image fields are then stored as given.
type StorageConfig struct {
	Bucket        string `koanf:"bucket"`
	Prefix        string `koanf:"prefix"`
	PublicBaseURL string `koanf:"publicbaseurl"`
}

const defaultPublicBaseURL = "https://storage.googleapis.com"

// String returns a string representation of the storage configuration.
func (c *StorageConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Storage ---\n")
	b.WriteString(fmt.Sprintf("  bucket: %s\n", c.Bucket))
	b.WriteString(fmt.Sprintf("  prefix: %s\n", c.Prefix))
	b.WriteString(fmt.Sprintf("  publicbaseurl: %s\n", c.PublicBaseURL))
	return b.String()
}

// Enabled reports whether image uploads go to a bucket.
func (c *StorageConfig) Enabled() bool {
	return c.Bucket != ""
}

func (c *StorageConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if strings.Contains(c.Bucket, "/") {
		return fmt.Errorf("storage bucket must be a bare bucket name: %s", c.Bucket)
	}
	if c.PublicBaseURL == "" {
		c.PublicBaseURL = defaultPublicBaseURL
	}
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")
	c.Prefix = strings.Trim(c.Prefix, "/")
	return nil
}
