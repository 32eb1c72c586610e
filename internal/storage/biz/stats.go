package biz

import (
	"context"

	"github.com/tierstore/tierstore/internal/storage/types"
)

// TierStats aggregates one tier
type TierStats struct {
	Count int64 `json:"count"`
	Size  int64 `json:"size"`
}

// StorageStats is the read-side reduction over the metadata registry. Every
// tier is present in Tiers even when empty.
type StorageStats struct {
	TotalFiles int64                    `json:"total_files"`
	TotalSize  int64                    `json:"total_size"`
	Tiers      map[types.Tier]TierStats `json:"tiers"`
}

// Stats reduces the registry into per-tier counts and sizes. Read-only; a
// record with an unknown tier is counted in the totals but not per tier.
func (uc *StorageUseCase) Stats(ctx context.Context) (*StorageStats, error) {
	stats := &StorageStats{
		Tiers: make(map[types.Tier]TierStats, len(types.AllTiers())),
	}
	for _, tier := range types.AllTiers() {
		stats.Tiers[tier] = TierStats{}
	}

	err := uc.repo.ForEach(ctx, func(meta *ObjectMeta) error {
		stats.TotalFiles++
		stats.TotalSize += meta.SizeBytes
		if ts, ok := stats.Tiers[meta.Tier]; ok {
			ts.Count++
			ts.Size += meta.SizeBytes
			stats.Tiers[meta.Tier] = ts
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
