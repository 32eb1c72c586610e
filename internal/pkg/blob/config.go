package blob

import (
	"errors"
	"time"
)

// Config represents the configuration for the S3-compatible blob client
type Config struct {
	// Endpoint is the object storage endpoint, e.g. "localhost:9000"
	Endpoint string

	// AccessKeyID is the access key for authentication
	AccessKeyID string

	// SecretAccessKey is the secret key for authentication
	SecretAccessKey string

	// Region is the storage region (optional)
	Region string

	// UseSSL determines whether to use HTTPS
	UseSSL bool

	// Bucket is the bucket all objects are stored in
	Bucket string

	// RequestTimeout is the timeout for individual requests
	// Default: 30 seconds
	RequestTimeout time.Duration
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("blob: endpoint is required")
	}
	if c.AccessKeyID == "" {
		return errors.New("blob: access key ID is required")
	}
	if c.SecretAccessKey == "" {
		return errors.New("blob: secret access key is required")
	}
	if c.Bucket == "" {
		return errors.New("blob: bucket is required")
	}
	return nil
}

// SetDefaults sets default values for unspecified configuration fields
func (c *Config) SetDefaults() {
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
}
