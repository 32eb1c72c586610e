package blob

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Client wraps a MinIO client bound to a single bucket
type Client struct {
	client *minio.Client
	config *Config
	logger *zap.Logger
}

// NewClient creates a new blob client and ensures the configured bucket exists
func NewClient(ctx context.Context, cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidArgument
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	}
	if cfg.Region != "" {
		opts.Region = cfg.Region
	}

	minioClient, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, wrapError("NewClient", err, cfg.Bucket, "")
	}

	exists, err := minioClient.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, wrapError("BucketExists", err, cfg.Bucket, "")
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, wrapError("MakeBucket", err, cfg.Bucket, "")
		}
	}

	if logger != nil {
		logger.Info("blob client initialized",
			zap.String("endpoint", cfg.Endpoint),
			zap.String("bucket", cfg.Bucket),
			zap.Bool("use_ssl", cfg.UseSSL),
		)
	}

	return &Client{
		client: minioClient,
		config: cfg,
		logger: logger,
	}, nil
}

// Bucket returns the bucket the client is bound to
func (c *Client) Bucket() string {
	return c.config.Bucket
}

// Ping checks if the backend is reachable
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.client.BucketExists(ctx, c.config.Bucket); err != nil {
		return wrapError("Ping", err, c.config.Bucket, "")
	}
	return nil
}
