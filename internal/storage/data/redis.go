package data

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tierstore/tierstore/internal/storage/biz"
	"github.com/tierstore/tierstore/internal/storage/types"
)

const (
	objectKeyPrefix = "tierstore:object:"
	objectIndexKey  = "tierstore:objects"
)

// RedisMetadataRepo implements biz.MetadataRepo on Redis. Each record is a
// hash keyed by object id plus a set of ids for iteration. Field writes are
// last-writer-wins; a hash is written or deleted whole, so readers never see
// a torn record.
type RedisMetadataRepo struct {
	client *redis.Client
}

// NewRedisMetadataRepo creates a Redis-backed metadata registry
func NewRedisMetadataRepo(client *redis.Client) *RedisMetadataRepo {
	return &RedisMetadataRepo{client: client}
}

func objectKey(id string) string {
	return objectKeyPrefix + id
}

func (r *RedisMetadataRepo) Create(ctx context.Context, meta *biz.ObjectMeta) error {
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, objectKey(meta.ID), recordFields(meta))
	pipe.SAdd(ctx, objectIndexKey, meta.ID)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisMetadataRepo) Get(ctx context.Context, id string) (*biz.ObjectMeta, error) {
	fields, err := r.client.HGetAll(ctx, objectKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, biz.ErrObjectNotFound
	}
	return parseRecord(id, fields), nil
}

func (r *RedisMetadataRepo) Delete(ctx context.Context, id string) error {
	removed, err := r.client.SRem(ctx, objectIndexKey, id).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return biz.ErrObjectNotFound
	}
	return r.client.Del(ctx, objectKey(id)).Err()
}

func (r *RedisMetadataRepo) ForEach(ctx context.Context, visit func(meta *biz.ObjectMeta) error) error {
	ids, err := r.client.SMembers(ctx, objectIndexKey).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		meta, err := r.Get(ctx, id)
		if err == biz.ErrObjectNotFound {
			// deleted between the index read and the hash read
			continue
		}
		if err != nil {
			return err
		}
		if err := visit(meta); err != nil {
			return err
		}
	}
	return nil
}

func (r *RedisMetadataRepo) Touch(ctx context.Context, id string) error {
	return r.SetLastAccessed(ctx, id, time.Now())
}

func (r *RedisMetadataRepo) SetLastAccessed(ctx context.Context, id string, t time.Time) error {
	return r.setField(ctx, id, "last_accessed", t.UTC().Format(time.RFC3339Nano))
}

func (r *RedisMetadataRepo) UpdateTier(ctx context.Context, id string, tier types.Tier) error {
	return r.setField(ctx, id, "tier", string(tier))
}

func (r *RedisMetadataRepo) setField(ctx context.Context, id, field, value string) error {
	exists, err := r.client.Exists(ctx, objectKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return biz.ErrObjectNotFound
	}
	return r.client.HSet(ctx, objectKey(id), field, value).Err()
}

func recordFields(meta *biz.ObjectMeta) map[string]interface{} {
	return map[string]interface{}{
		"file_name":     meta.FileName,
		"size_bytes":    strconv.FormatInt(meta.SizeBytes, 10),
		"content_type":  meta.ContentType,
		"etag":          meta.ETag,
		"tier":          string(meta.Tier),
		"created_at":    meta.CreatedAt.UTC().Format(time.RFC3339Nano),
		"last_accessed": meta.LastAccessed.UTC().Format(time.RFC3339Nano),
	}
}

// parseRecord converts hash fields into a record without failing: malformed
// fields produce a record that does not pass ObjectMeta.Validate, which the
// callers treat as corrupt (skip in a pass, not-found on direct read).
func parseRecord(id string, fields map[string]string) *biz.ObjectMeta {
	size, _ := strconv.ParseInt(fields["size_bytes"], 10, 64)
	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	lastAccessed, _ := time.Parse(time.RFC3339Nano, fields["last_accessed"])

	return &biz.ObjectMeta{
		ID:           id,
		FileName:     fields["file_name"],
		SizeBytes:    size,
		ContentType:  fields["content_type"],
		ETag:         fields["etag"],
		Tier:         types.Tier(fields["tier"]),
		CreatedAt:    createdAt,
		LastAccessed: lastAccessed,
	}
}
