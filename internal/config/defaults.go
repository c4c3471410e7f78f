package config

import (
	"time"

	"github.com/njchilds90/symcore"
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 1 << 20

	DefaultMetricsNamespace = "symcore"
)

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-value fields. Explicit values are kept.
// A zero cache capacity is replaced too; ask for an unbounded cache with a
// negative value in code, not in config.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Engine.CacheCapacity == 0 {
		cfg.Engine.CacheCapacity = symcore.DefaultCacheCapacity
	}
	if cfg.Engine.MaxDepth == 0 {
		cfg.Engine.MaxDepth = symcore.DefaultLimits.MaxDepth
	}
	if cfg.Engine.MaxNodes == 0 {
		cfg.Engine.MaxNodes = symcore.DefaultLimits.MaxNodes
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// Limits converts the engine section into kernel limits.
func (c *Config) Limits() symcore.Limits {
	return symcore.Limits{MaxDepth: c.Engine.MaxDepth, MaxNodes: c.Engine.MaxNodes}
}
