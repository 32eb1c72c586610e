package blob

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// PutObject uploads an object to the configured bucket
func (c *Client) PutObject(ctx context.Context, objectName string, data []byte, contentType string) error {
	if objectName == "" {
		return wrapError("PutObject", ErrInvalidArgument, c.config.Bucket, objectName)
	}

	info, err := c.client.PutObject(ctx, c.config.Bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return wrapError("PutObject", err, c.config.Bucket, objectName)
	}

	if c.logger != nil {
		c.logger.Debug("object uploaded",
			zap.String("object", objectName),
			zap.Int64("size", info.Size),
			zap.String("etag", info.ETag),
		)
	}

	return nil
}

// GetObject downloads an object from the configured bucket
func (c *Client) GetObject(ctx context.Context, objectName string) ([]byte, error) {
	if objectName == "" {
		return nil, wrapError("GetObject", ErrInvalidArgument, c.config.Bucket, objectName)
	}

	obj, err := c.client.GetObject(ctx, c.config.Bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapError("GetObject", err, c.config.Bucket, objectName)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if IsNotFound(err) {
			return nil, wrapError("GetObject", ErrObjectNotFound, c.config.Bucket, objectName)
		}
		return nil, wrapError("GetObject", err, c.config.Bucket, objectName)
	}

	return data, nil
}

// RemoveObject removes an object from the configured bucket
func (c *Client) RemoveObject(ctx context.Context, objectName string) error {
	if objectName == "" {
		return wrapError("RemoveObject", ErrInvalidArgument, c.config.Bucket, objectName)
	}

	if err := c.client.RemoveObject(ctx, c.config.Bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return wrapError("RemoveObject", err, c.config.Bucket, objectName)
	}

	return nil
}
