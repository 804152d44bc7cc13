package config

import (
	"fmt"
	"strings"
)

// AuthConfig holds the settings used to verify session tokens.
type AuthConfig struct {
	Secret     string `koanf:"secret"`
	Issuer     string `koanf:"issuer"`
	CookieName string `koanf:"cookiename"`
}

const (
	defaultCookieName = "accessToken"
	minSecretLength   = 16
)

// String returns a string representation of the auth configuration. The secret is never printed.
func (c *AuthConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Auth ---\n")
	b.WriteString(fmt.Sprintf("  secret: %s\n", maskSecret(c.Secret)))
	b.WriteString(fmt.Sprintf("  issuer: %s\n", c.Issuer))
	b.WriteString(fmt.Sprintf("  cookiename: %s\n", c.CookieName))
	return b.String()
}

func (c *AuthConfig) Validate() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("auth secret must be at least %d characters", minSecretLength)
	}
	if c.CookieName == "" {
		c.CookieName = defaultCookieName
	}
	return nil
}

func maskSecret(s string) string {
	if s == "" {
		return "<not configured>"
	}
	return "****"
}
