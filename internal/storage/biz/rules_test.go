package biz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tierstore/tierstore/internal/storage/types"
)

func ruleMeta(fileName string, tier types.Tier, daysSinceAccess int, now time.Time) *ObjectMeta {
	accessed := now.Add(-time.Duration(daysSinceAccess) * 24 * time.Hour)
	return &ObjectMeta{
		ID:           "obj-1",
		FileName:     fileName,
		SizeBytes:    2 << 20,
		Tier:         tier,
		CreatedAt:    accessed,
		LastAccessed: accessed,
	}
}

func TestPriorityPinRule(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rule := PriorityPinRule(DefaultPriorityMarker)

	tests := []struct {
		name     string
		fileName string
		tier     types.Tier
		wantHit  bool
	}{
		{"marker in middle", "report_PRIORITY_final", types.TierWarm, true},
		{"marker at start", "PRIORITY_dashboard", types.TierCold, true},
		{"lowercase marker", "weekly_priority_digest", types.TierWarm, true},
		{"mixed case marker", "Priority-items.csv", types.TierHot, true},
		{"no marker", "report_final", types.TierWarm, false},
		{"partial word does not match prior", "prior_engagements.txt", types.TierWarm, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, ok := rule.Apply(ruleMeta(tt.fileName, tt.tier, 500, now), now)
			assert.Equal(t, tt.wantHit, ok)
			if tt.wantHit {
				assert.Equal(t, types.TierHot, tier)
			}
		})
	}
}

func TestRetentionHoldRule(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rule := RetentionHoldRule(DefaultRetentionPrefix, DefaultRetentionMaxDays)

	tests := []struct {
		name     string
		fileName string
		tier     types.Tier
		age      int
		wantHit  bool
	}{
		{"warm within window", "LEGAL_contract", types.TierWarm, 150, true},
		{"warm at boundary", "LEGAL_contract", types.TierWarm, 180, true},
		{"warm past boundary", "LEGAL_contract", types.TierWarm, 181, false},
		{"lowercase prefix", "legal_brief.pdf", types.TierWarm, 100, true},
		{"mixed case prefix", "Legal_notes", types.TierWarm, 100, true},
		{"prefix not at start", "old_LEGAL_contract", types.TierWarm, 100, false},
		{"hot tier never held", "LEGAL_contract", types.TierHot, 100, false},
		{"cold tier never held", "LEGAL_contract", types.TierCold, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, ok := rule.Apply(ruleMeta(tt.fileName, tt.tier, tt.age, now), now)
			assert.Equal(t, tt.wantHit, ok)
			if tt.wantHit {
				assert.Equal(t, types.TierWarm, tier)
			}
		})
	}
}

func TestRuleSetEvaluateFirstMatchWins(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rules := DefaultRuleSet()

	// Name satisfies both rules; the pin is ordered first.
	meta := ruleMeta("LEGAL_PRIORITY_case", types.TierWarm, 100, now)
	tier, ok := rules.Evaluate(meta, now)
	assert.True(t, ok)
	assert.Equal(t, types.TierHot, tier)
}

func TestRuleSetEvaluateNoMatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rules := DefaultRuleSet()

	_, ok := rules.Evaluate(ruleMeta("plain.txt", types.TierWarm, 100, now), now)
	assert.False(t, ok)
}

func TestDaysSinceTruncatesPartialDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		then time.Time
		want int
	}{
		{"exactly 30 days", now.Add(-30 * 24 * time.Hour), 30},
		{"just short of 30 days", now.Add(-30*24*time.Hour + time.Minute), 29},
		{"just past 30 days", now.Add(-30*24*time.Hour - time.Minute), 30},
		{"same instant", now, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysSince(now, tt.then))
		})
	}
}
