package data

import (
	"context"

	"github.com/tierstore/tierstore/internal/pkg/blob"
	"github.com/tierstore/tierstore/internal/storage/biz"
)

// MinioBlobStore implements biz.BlobStore on an S3-compatible backend
type MinioBlobStore struct {
	client *blob.Client
}

// NewMinioBlobStore creates a blob store backed by the given client
func NewMinioBlobStore(client *blob.Client) *MinioBlobStore {
	return &MinioBlobStore{client: client}
}

func (s *MinioBlobStore) Put(ctx context.Context, id string, data []byte, contentType string) error {
	return s.client.PutObject(ctx, id, data, contentType)
}

func (s *MinioBlobStore) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.GetObject(ctx, id)
	if err != nil {
		if blob.IsNotFound(err) {
			return nil, biz.ErrObjectNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *MinioBlobStore) Delete(ctx context.Context, id string) error {
	if err := s.client.RemoveObject(ctx, id); err != nil {
		if blob.IsNotFound(err) {
			return biz.ErrObjectNotFound
		}
		return err
	}
	return nil
}
