package data

import (
	"context"
	"errors"
	"time"

	"github.com/tierstore/tierstore/internal/storage/biz"
	"github.com/tierstore/tierstore/internal/storage/types"
	"gorm.io/gorm"
)

// ObjectPO is the database model for a metadata record
type ObjectPO struct {
	ID           string    `gorm:"type:uuid;primarykey"`
	FileName     string    `gorm:"size:512;not null"`
	SizeBytes    int64     `gorm:"not null"`
	ContentType  string    `gorm:"size:255;not null"`
	ETag         string    `gorm:"size:64;not null"`
	Tier         string    `gorm:"size:8;not null;index"`
	CreatedAt    time.Time `gorm:"not null"`
	LastAccessed time.Time `gorm:"not null"`
}

func (ObjectPO) TableName() string {
	return "objects"
}

// GormMetadataRepo implements biz.MetadataRepo on a relational store,
// letting the engine run unchanged against a persistent registry.
type GormMetadataRepo struct {
	db *gorm.DB
}

// NewGormMetadataRepo creates the repo and migrates its table
func NewGormMetadataRepo(db *gorm.DB) (*GormMetadataRepo, error) {
	if err := db.AutoMigrate(&ObjectPO{}); err != nil {
		return nil, err
	}
	return &GormMetadataRepo{db: db}, nil
}

func (r *GormMetadataRepo) Create(ctx context.Context, meta *biz.ObjectMeta) error {
	return r.db.WithContext(ctx).Create(toPO(meta)).Error
}

func (r *GormMetadataRepo) Get(ctx context.Context, id string) (*biz.ObjectMeta, error) {
	var po ObjectPO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, biz.ErrObjectNotFound
		}
		return nil, err
	}
	return toMeta(&po), nil
}

func (r *GormMetadataRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ObjectPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biz.ErrObjectNotFound
	}
	return nil
}

func (r *GormMetadataRepo) ForEach(ctx context.Context, visit func(meta *biz.ObjectMeta) error) error {
	var pos []ObjectPO
	if err := r.db.WithContext(ctx).Find(&pos).Error; err != nil {
		return err
	}
	for i := range pos {
		if err := visit(toMeta(&pos[i])); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormMetadataRepo) Touch(ctx context.Context, id string) error {
	return r.SetLastAccessed(ctx, id, time.Now())
}

func (r *GormMetadataRepo) SetLastAccessed(ctx context.Context, id string, t time.Time) error {
	return r.updateColumn(ctx, id, "last_accessed", t)
}

func (r *GormMetadataRepo) UpdateTier(ctx context.Context, id string, tier types.Tier) error {
	return r.updateColumn(ctx, id, "tier", string(tier))
}

func (r *GormMetadataRepo) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&ObjectPO{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biz.ErrObjectNotFound
	}
	return nil
}

func toPO(meta *biz.ObjectMeta) *ObjectPO {
	return &ObjectPO{
		ID:           meta.ID,
		FileName:     meta.FileName,
		SizeBytes:    meta.SizeBytes,
		ContentType:  meta.ContentType,
		ETag:         meta.ETag,
		Tier:         string(meta.Tier),
		CreatedAt:    meta.CreatedAt,
		LastAccessed: meta.LastAccessed,
	}
}

func toMeta(po *ObjectPO) *biz.ObjectMeta {
	return &biz.ObjectMeta{
		ID:           po.ID,
		FileName:     po.FileName,
		SizeBytes:    po.SizeBytes,
		ContentType:  po.ContentType,
		ETag:         po.ETag,
		Tier:         types.Tier(po.Tier),
		CreatedAt:    po.CreatedAt,
		LastAccessed: po.LastAccessed,
	}
}
