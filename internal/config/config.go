// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

// Package config loads layered application configuration with koanf:
// built-in defaults, then an optional YAML file, then environment
// variables. ENV > file > defaults.
package config

import (
	"fmt"
	"time"

	"github.com/kurisu-dev/susume/internal/cf"
	"github.com/kurisu-dev/susume/internal/eval"
	"github.com/kurisu-dev/susume/internal/ingest"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig        `koanf:"server"`
	Logging  LoggingConfig       `koanf:"logging"`
	Data     DataConfig          `koanf:"data"`
	Sample   ingest.SampleConfig `koanf:"sample"`
	CF       cf.Config           `koanf:"cf"`
	Eval     eval.Config         `koanf:"eval"`
	Security SecurityConfig      `koanf:"security"`
	Warmer   WarmerConfig        `koanf:"warmer"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line in log output.
	Caller bool `koanf:"caller"`
}

// DataConfig holds rating data settings. When CSVPath is empty a
// deterministic sample set is generated instead.
type DataConfig struct {
	CSVPath  string  `koanf:"csv_path"`
	MinScore float64 `koanf:"min_score"`
	MaxScore float64 `koanf:"max_score"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// WarmerConfig holds similarity cache warmer settings.
type WarmerConfig struct {
	Enabled       bool          `koanf:"enabled"`
	WarmOnStartup bool          `koanf:"warm_on_startup"`
	Interval      time.Duration `koanf:"interval"`
	WarmTimeout   time.Duration `koanf:"warm_timeout"`
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d outside valid range 1-65535", c.Server.Port)
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}

	if c.Data.MinScore >= c.Data.MaxScore {
		return fmt.Errorf("data.min_score %v must be below data.max_score %v",
			c.Data.MinScore, c.Data.MaxScore)
	}

	if c.CF.MinSimilarity < -1 || c.CF.MinSimilarity > 1 {
		return fmt.Errorf("cf.min_similarity %v outside cosine range [-1, 1]", c.CF.MinSimilarity)
	}
	if c.CF.TopN < 1 {
		return fmt.Errorf("cf.top_n %d must be positive", c.CF.TopN)
	}
	if c.CF.NumWorkers < 1 {
		return fmt.Errorf("cf.num_workers %d must be positive", c.CF.NumWorkers)
	}

	if c.Eval.TestFraction <= 0 || c.Eval.TestFraction >= 1 {
		return fmt.Errorf("eval.test_fraction %v must be in (0, 1)", c.Eval.TestFraction)
	}

	if c.Sample.Users < 1 {
		return fmt.Errorf("sample.users %d must be positive", c.Sample.Users)
	}
	if c.Sample.MinPerUser < 1 || c.Sample.MaxPerUser < c.Sample.MinPerUser {
		return fmt.Errorf("sample per-user range %d-%d is invalid",
			c.Sample.MinPerUser, c.Sample.MaxPerUser)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitRequests < 1 {
			return fmt.Errorf("security.rate_limit_requests %d must be positive",
				c.Security.RateLimitRequests)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window %v must be positive",
				c.Security.RateLimitWindow)
		}
	}

	return nil
}
