package biz

import (
	"context"
	"time"

	"github.com/tierstore/tierstore/internal/storage/types"
	"go.uber.org/zap"
)

// Default generic age schedule
const (
	DefaultHotToWarmDays  = 30
	DefaultWarmToColdDays = 90
)

// TierStep is one demotion step of the generic age schedule
type TierStep struct {
	From       types.Tier
	MinAgeDays int // days since last access at which the step applies
	To         types.Tier
}

// DefaultSchedule returns the generic schedule as an ordered table, so the
// HOT->WARM->COLD progression is enforced structurally. COLD has no entry:
// it is terminal absent an override.
func DefaultSchedule() []TierStep {
	return []TierStep{
		{From: types.TierHot, MinAgeDays: DefaultHotToWarmDays, To: types.TierWarm},
		{From: types.TierWarm, MinAgeDays: DefaultWarmToColdDays, To: types.TierCold},
	}
}

// PassResult reports the outcome of one tiering pass
type PassResult struct {
	Moved   int // records whose tier changed
	Skipped int // records that could not be evaluated or mutated
}

// Status mirrors the admin API contract: a pass with skipped records still
// succeeds, reported as partial
func (r PassResult) Status() string {
	if r.Skipped > 0 {
		return "partial_success"
	}
	return "success"
}

// Engine runs tiering passes over the metadata registry. A pass consults the
// override rules first and falls back to the generic age schedule; each record
// advances at most one tier step per pass, so an object far past several
// thresholds converges over successive passes.
type Engine struct {
	repo     MetadataRepo
	rules    *RuleSet
	schedule []TierStep
	now      func() time.Time
	logger   *zap.Logger
}

// NewEngine creates a tiering engine. A nil clock defaults to time.Now.
func NewEngine(repo MetadataRepo, rules *RuleSet, schedule []TierStep, clock func() time.Time, logger *zap.Logger) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		repo:     repo,
		rules:    rules,
		schedule: schedule,
		now:      clock,
		logger:   logger,
	}
}

// RunPass evaluates every record in the registry exactly once and applies at
// most one tier transition per record. Records that fail to evaluate or
// mutate are skipped and counted; only a registry-level iteration failure
// aborts the pass.
func (e *Engine) RunPass(ctx context.Context) (PassResult, error) {
	var result PassResult
	now := e.now()

	err := e.repo.ForEach(ctx, func(meta *ObjectMeta) error {
		if err := meta.Validate(); err != nil {
			result.Skipped++
			e.logger.Warn("skipping unreadable metadata record",
				zap.String("id", meta.ID),
				zap.Error(err))
			return nil
		}

		target, forced := e.rules.Evaluate(meta, now)
		if forced {
			if target == meta.Tier {
				return nil
			}
			e.move(ctx, meta, target, "override", &result)
			return nil
		}

		step, ok := e.stepFor(meta.Tier)
		if !ok {
			// terminal tier, nothing to do without an override
			return nil
		}

		if daysSince(now, meta.LastAccessed) >= step.MinAgeDays {
			e.move(ctx, meta, step.To, "schedule", &result)
		}
		return nil
	})
	if err != nil {
		return PassResult{}, err
	}

	e.logger.Info("tiering pass completed",
		zap.Int("moved", result.Moved),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

// move applies a single tier transition, demoting the failure to a skip
func (e *Engine) move(ctx context.Context, meta *ObjectMeta, to types.Tier, reason string, result *PassResult) {
	if err := e.repo.UpdateTier(ctx, meta.ID, to); err != nil {
		result.Skipped++
		e.logger.Warn("failed to move object",
			zap.String("id", meta.ID),
			zap.String("to", to.String()),
			zap.Error(err))
		return
	}
	result.Moved++
	e.logger.Debug("object moved",
		zap.String("id", meta.ID),
		zap.String("file_name", meta.FileName),
		zap.String("from", meta.Tier.String()),
		zap.String("to", to.String()),
		zap.String("reason", reason))
}

// stepFor returns the schedule step for the given tier, if any
func (e *Engine) stepFor(tier types.Tier) (TierStep, bool) {
	for _, step := range e.schedule {
		if step.From == tier {
			return step, true
		}
	}
	return TierStep{}, false
}
