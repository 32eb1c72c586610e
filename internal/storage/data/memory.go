package data

import (
	"context"
	"sync"
	"time"

	"github.com/tierstore/tierstore/internal/storage/biz"
	"github.com/tierstore/tierstore/internal/storage/types"
)

// MemoryMetadataRepo is the in-memory metadata registry. A single RWMutex
// serializes per-record mutation, and ForEach iterates over a snapshot taken
// under the lock, so a pass never observes a half-written record and records
// created mid-pass are either fully included or fully excluded.
type MemoryMetadataRepo struct {
	mu      sync.RWMutex
	records map[string]*biz.ObjectMeta
}

// NewMemoryMetadataRepo creates an empty in-memory registry
func NewMemoryMetadataRepo() *MemoryMetadataRepo {
	return &MemoryMetadataRepo{
		records: make(map[string]*biz.ObjectMeta),
	}
}

func (r *MemoryMetadataRepo) Create(_ context.Context, meta *biz.ObjectMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[meta.ID] = meta.Clone()
	return nil
}

func (r *MemoryMetadataRepo) Get(_ context.Context, id string) (*biz.ObjectMeta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.records[id]
	if !ok {
		return nil, biz.ErrObjectNotFound
	}
	return meta.Clone(), nil
}

func (r *MemoryMetadataRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return biz.ErrObjectNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *MemoryMetadataRepo) ForEach(_ context.Context, visit func(meta *biz.ObjectMeta) error) error {
	r.mu.RLock()
	snapshot := make([]*biz.ObjectMeta, 0, len(r.records))
	for _, meta := range r.records {
		snapshot = append(snapshot, meta.Clone())
	}
	r.mu.RUnlock()

	for _, meta := range snapshot {
		if err := visit(meta); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryMetadataRepo) Touch(ctx context.Context, id string) error {
	return r.SetLastAccessed(ctx, id, time.Now())
}

func (r *MemoryMetadataRepo) SetLastAccessed(_ context.Context, id string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	meta, ok := r.records[id]
	if !ok {
		return biz.ErrObjectNotFound
	}
	meta.LastAccessed = t
	return nil
}

func (r *MemoryMetadataRepo) UpdateTier(_ context.Context, id string, tier types.Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	meta, ok := r.records[id]
	if !ok {
		return biz.ErrObjectNotFound
	}
	meta.Tier = tier
	return nil
}

// Put overwrites a record as-is, bypassing creation defaults. Test support
// for injecting records in arbitrary shapes, including corrupt ones.
func (r *MemoryMetadataRepo) Put(meta *biz.ObjectMeta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[meta.ID] = meta.Clone()
}

// Len returns the number of records
func (r *MemoryMetadataRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
