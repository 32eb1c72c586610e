package biz

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tierstore/tierstore/internal/storage/types"
	"go.uber.org/zap"
)

// Upload size bounds, enforced before any state is created
const (
	MinObjectSize = 1 << 20  // 1 MiB
	MaxObjectSize = 10 << 30 // 10 GiB
)

// StorageUseCase orchestrates the object lifecycle: uploads, downloads,
// deletes and the admin support operations. Metadata and blob bytes are
// created and removed together, never one without the other.
type StorageUseCase struct {
	repo   MetadataRepo
	blobs  BlobStore
	now    func() time.Time
	logger *zap.Logger
}

// NewStorageUseCase creates the storage use case. A nil clock defaults to
// time.Now.
func NewStorageUseCase(repo MetadataRepo, blobs BlobStore, clock func() time.Time, logger *zap.Logger) *StorageUseCase {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageUseCase{
		repo:   repo,
		blobs:  blobs,
		now:    clock,
		logger: logger,
	}
}

// Upload validates and stores a new object. New objects always enter HOT with
// both timestamps set to now. On any failure the system is left exactly as it
// was before the call.
func (uc *StorageUseCase) Upload(ctx context.Context, fileName string, content []byte, contentType string) (*ObjectMeta, error) {
	if len(content) == 0 {
		return nil, ErrFileEmpty
	}
	if len(content) < MinObjectSize {
		return nil, ErrFileTooSmall
	}
	if int64(len(content)) > int64(MaxObjectSize) {
		return nil, ErrFileTooLarge
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := uc.now()
	meta := &ObjectMeta{
		ID:           uuid.NewString(),
		FileName:     fileName,
		SizeBytes:    int64(len(content)),
		ContentType:  contentType,
		ETag:         uuid.NewString(),
		Tier:         types.TierHot,
		CreatedAt:    now,
		LastAccessed: now,
	}

	if err := uc.blobs.Put(ctx, meta.ID, content, contentType); err != nil {
		uc.logger.Error("blob write failed during upload",
			zap.String("id", meta.ID),
			zap.String("file_name", fileName),
			zap.Error(err))
		return nil, ErrBlobWriteFailed
	}

	if err := uc.repo.Create(ctx, meta); err != nil {
		// roll the blob back so no orphaned bytes remain
		if derr := uc.blobs.Delete(ctx, meta.ID); derr != nil {
			uc.logger.Error("failed to roll back blob after metadata failure",
				zap.String("id", meta.ID),
				zap.Error(derr))
		}
		return nil, err
	}

	uc.logger.Info("object uploaded",
		zap.String("id", meta.ID),
		zap.String("file_name", fileName),
		zap.Int64("size", meta.SizeBytes),
		zap.String("tier", meta.Tier.String()))

	return meta, nil
}

// Download returns the object content and metadata, and records the access.
// Only a true content download updates LastAccessed.
func (uc *StorageUseCase) Download(ctx context.Context, id string) ([]byte, *ObjectMeta, error) {
	meta, err := uc.GetMetadata(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	content, err := uc.blobs.Get(ctx, id)
	if err != nil {
		uc.logger.Error("blob read failed during download",
			zap.String("id", id),
			zap.Error(err))
		return nil, nil, ErrBlobReadFailed
	}

	if err := uc.repo.Touch(ctx, id); err != nil && err != ErrObjectNotFound {
		return nil, nil, err
	}

	return content, meta, nil
}

// GetMetadata returns the metadata record without touching the access time.
// A record that no longer conforms to the expected shape reads as not found.
func (uc *StorageUseCase) GetMetadata(ctx context.Context, id string) (*ObjectMeta, error) {
	meta, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := meta.Validate(); err != nil {
		uc.logger.Warn("metadata record unreadable",
			zap.String("id", id),
			zap.Error(err))
		return nil, ErrObjectNotFound
	}
	return meta, nil
}

// Delete removes the metadata record and blob bytes together
func (uc *StorageUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := uc.blobs.Delete(ctx, id); err != nil && err != ErrObjectNotFound {
		uc.logger.Error("failed to delete blob content",
			zap.String("id", id),
			zap.Error(err))
		return err
	}

	uc.logger.Info("object deleted", zap.String("id", id))
	return nil
}

// Backdate moves LastAccessed the given number of days into the past, without
// validation: backdating before CreatedAt is an intended test scenario.
func (uc *StorageUseCase) Backdate(ctx context.Context, id string, daysAgo int) (time.Time, error) {
	t := uc.now().Add(-time.Duration(daysAgo) * 24 * time.Hour)
	if err := uc.repo.SetLastAccessed(ctx, id, t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}
