// Package rankingdomain holds the pure ranking rules: emblem tier
// classification over top-50 patch totals.
package rankingdomain

import (
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
)

// EmblemTier is an ordered rank from 1 (lowest) to 13 (highest).
type EmblemTier int

// TierCount is the number of emblem tiers.
const TierCount = 13

// tierStep is the patch total needed to advance one tier.
const tierStep = 5000

// TierForTotal classifies a top-50 patch total into its emblem tier. Each
// tier spans 5000 patch: totals below 5000 are tier 1, a total of exactly
// 5000 reaches tier 2, and everything at or above 60000 is tier 13.
func TierForTotal(total sharedtypes.Patch) EmblemTier {
	if total < 0 {
		return 1
	}
	tier := EmblemTier(total/tierStep) + 1
	if tier > TierCount {
		return TierCount
	}
	return tier
}

var romanNumerals = [TierCount]string{
	"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII", "XIII",
}

// Label returns the display label of the tier.
func (t EmblemTier) Label() string {
	if t < 1 || t > TierCount {
		return "?"
	}
	return romanNumerals[t-1]
}
