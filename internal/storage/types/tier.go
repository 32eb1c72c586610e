package types

import "fmt"

// Tier represents a storage tier in decreasing order of access readiness
type Tier string

const (
	TierHot  Tier = "HOT"
	TierWarm Tier = "WARM"
	TierCold Tier = "COLD"
)

// AllTiers returns every tier in hot-to-cold order
func AllTiers() []Tier {
	return []Tier{TierHot, TierWarm, TierCold}
}

// Valid reports whether t is a known tier
func (t Tier) Valid() bool {
	switch t {
	case TierHot, TierWarm, TierCold:
		return true
	}
	return false
}

// String implements fmt.Stringer
func (t Tier) String() string {
	return string(t)
}

// ParseTier converts a string into a Tier
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown storage tier: %q", s)
	}
	return t, nil
}
