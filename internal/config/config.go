// Package config holds the storefront service configuration.
package config

import (
	"strings"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/abgdnv/storefront/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer     config.HTTPConfig           `koanf:"server"`
	Database       config.DatabaseConfig       `koanf:"database"`
	Log            config.LogConfig            `koanf:"log"`
	PProf          config.PProfConfig          `koanf:"pprof"`
	GRPC           config.GrpcServerConfig     `koanf:"grpc"`
	Shutdown       config.ShutdownConfig       `koanf:"shutdown"`
	Redis          config.RedisConfig          `koanf:"redis"`
	Cache          config.CacheConfig          `koanf:"cache"`
	CircuitBreaker config.CircuitBreakerConfig `koanf:"circuitbreaker"`
	Auth           config.AuthConfig           `koanf:"auth"`
	NATS           config.NATSConfig           `koanf:"nats"`
	Storage        config.StorageConfig        `koanf:"storage"`
	Telemetry      config.TelemetryConfig      `koanf:"telemetry"`
}

// String returns a printable configuration with secrets masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Redis.String())
	b.WriteString(c.Cache.String())
	b.WriteString(c.CircuitBreaker.String())
	b.WriteString(c.Auth.String())
	b.WriteString(c.NATS.String())
	b.WriteString(c.Storage.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid and fills in defaults.
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Database,
		&c.Log,
		&c.PProf,
		&c.GRPC,
		&c.Shutdown,
		&c.Redis,
		&c.Cache,
		&c.CircuitBreaker,
		&c.Auth,
		&c.NATS,
		&c.Storage,
		&c.Telemetry,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
