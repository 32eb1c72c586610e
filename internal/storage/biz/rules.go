package biz

import (
	"strings"
	"time"

	"github.com/tierstore/tierstore/internal/storage/types"
)

// Default override policy knobs
const (
	DefaultPriorityMarker   = "PRIORITY"
	DefaultRetentionPrefix  = "LEGAL_"
	DefaultRetentionMaxDays = 180
)

// Rule is an override predicate. Apply returns the tier the rule forces for
// the record, or false when the rule does not match.
type Rule struct {
	Name  string
	Apply func(meta *ObjectMeta, now time.Time) (types.Tier, bool)
}

// RuleSet is an ordered collection of override rules evaluated first-match.
// Overrides model mutually exclusive business exceptions, so the first
// matching rule wins and later rules are never consulted.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a rule set preserving the given evaluation order
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// DefaultRuleSet returns the production override rules: priority pinning
// first, extended retention second.
func DefaultRuleSet() *RuleSet {
	return NewRuleSet(
		PriorityPinRule(DefaultPriorityMarker),
		RetentionHoldRule(DefaultRetentionPrefix, DefaultRetentionMaxDays),
	)
}

// Evaluate returns the forced tier of the first matching rule, or false when
// no rule matches and the generic schedule should decide.
func (rs *RuleSet) Evaluate(meta *ObjectMeta, now time.Time) (types.Tier, bool) {
	for _, rule := range rs.rules {
		if tier, ok := rule.Apply(meta, now); ok {
			return tier, ok
		}
	}
	return "", false
}

// Rules returns the rules in evaluation order
func (rs *RuleSet) Rules() []Rule {
	return rs.rules
}

// PriorityPinRule forces HOT for any object whose file name contains the
// marker, case-insensitively. It overrides the current tier unconditionally,
// promoting back from WARM or COLD if one was somehow reached.
func PriorityPinRule(marker string) Rule {
	marker = strings.ToUpper(marker)
	return Rule{
		Name: "priority-pin",
		Apply: func(meta *ObjectMeta, _ time.Time) (types.Tier, bool) {
			if strings.Contains(strings.ToUpper(meta.FileName), marker) {
				return types.TierHot, true
			}
			return "", false
		},
	}
}

// RetentionHoldRule keeps retention-class objects in WARM past the generic
// WARM->COLD threshold, for up to maxDays since last access. It only
// suppresses the WARM->COLD step: objects in HOT or COLD are never matched,
// and the rule never forces entry into WARM.
func RetentionHoldRule(prefix string, maxDays int) Rule {
	prefix = strings.ToUpper(prefix)
	return Rule{
		Name: "retention-hold",
		Apply: func(meta *ObjectMeta, now time.Time) (types.Tier, bool) {
			if meta.Tier != types.TierWarm {
				return "", false
			}
			if !strings.HasPrefix(strings.ToUpper(meta.FileName), prefix) {
				return "", false
			}
			if daysSince(now, meta.LastAccessed) > maxDays {
				return "", false
			}
			return types.TierWarm, true
		},
	}
}

// daysSince returns the elapsed whole days between then and now
func daysSince(now, then time.Time) int {
	return int(now.Sub(then).Hours() / 24)
}
