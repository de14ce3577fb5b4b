package config

import (
	"fmt"
	"time"
)

// This file defines the configuration structures used by viper_config.go
// The actual loading is handled by viper in viper_config.go

// ServerConfig represents the full server configuration
type ServerConfig struct {
	Server  ServerSettings  `yaml:"server"`
	Cleanup CleanupSettings `yaml:"cleanup"`
}

// ServerSettings contains server-wide settings
type ServerSettings struct {
	// Server settings
	Port            string        `yaml:"port" envconfig:"PORT" required:"true"`
	Host            string        `yaml:"host" envconfig:"HOST" required:"true"`
	DatabasePath    string        `yaml:"databasePath" envconfig:"DATABASE_URL" default:"chicken_game.db"`
	ReadTimeout     time.Duration `yaml:"readTimeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"` // Timeout for HTTP requests (middleware)

	// Rate limiting (using golang.org/x/time/rate)
	RateLimit      float64 `yaml:"rateLimit" envconfig:"RATE_LIMIT" default:"30"`            // requests per second
	RateLimitBurst int     `yaml:"rateLimitBurst" envconfig:"RATE_LIMIT_BURST" default:"60"` // burst size

	// Request limits
	MaxRequestSize int64 `yaml:"maxRequestSize" envconfig:"MAX_REQUEST_SIZE" default:"1048576"` // 1MB

	// Logging
	LogLevel  string `yaml:"logLevel" envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `yaml:"logFormat" envconfig:"LOG_FORMAT" default:"text"`
}

// CleanupSettings controls the stale-room janitor
type CleanupSettings struct {
	Interval    time.Duration `yaml:"interval" envconfig:"CLEANUP_INTERVAL" default:"6h"`
	FinishedTTL time.Duration `yaml:"finishedTTL" envconfig:"CLEANUP_FINISHED_TTL" default:"24h"`
	IdleTTL     time.Duration `yaml:"idleTTL" envconfig:"CLEANUP_IDLE_TTL" default:"2h"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Port:            "", // Must be set via env
			Host:            "", // Must be set via env
			DatabasePath:    "chicken_game.db",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,

			RateLimit:      30,
			RateLimitBurst: 60,

			MaxRequestSize: 1048576, // 1MB

			LogLevel:  "info",
			LogFormat: "text",
		},
		Cleanup: CleanupSettings{
			Interval:    6 * time.Hour,
			FinishedTTL: 24 * time.Hour,
			IdleTTL:     2 * time.Hour,
		},
	}
}

// Validate checks if the configuration is valid
func (c *ServerConfig) Validate() error {
	// Required fields
	if c.Server.Port == "" {
		return fmt.Errorf("PORT environment variable must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HOST environment variable must be set")
	}
	if c.Server.DatabasePath == "" {
		return fmt.Errorf("databasePath must not be empty")
	}

	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("rateLimit must be positive")
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("rateLimitBurst must be at least 1")
	}
	if c.Server.MaxRequestSize < 1024 {
		return fmt.Errorf("maxRequestSize must be at least 1024 bytes")
	}

	if c.Cleanup.Interval <= 0 {
		return fmt.Errorf("cleanup interval must be positive")
	}
	if c.Cleanup.FinishedTTL <= 0 || c.Cleanup.IdleTTL <= 0 {
		return fmt.Errorf("cleanup TTLs must be positive")
	}

	return nil
}
