package config

import (
	"errors"
	"time"
)

// ServerConfig defines the HTTP API settings.
type ServerConfig struct {
	Address string `json:"address"`
	// Token protects the run history endpoint when set.
	Token              string `json:"token"`
	MaxUploadMB        int    `json:"max_upload_mb"`
	ReadTimeoutSeconds int    `json:"read_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 32
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.Address == "" {
		return errors.New("address is required")
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c ServerConfig) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

// ReadTimeout returns the request read timeout.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}
