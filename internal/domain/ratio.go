package domain

import "fmt"

// ContentRatioPolicy is the target split between content-sourced and
// general-knowledge questions. Invariant: ContentPct + GeneralPct == 100.
type ContentRatioPolicy struct {
	ContentPct int
	GeneralPct int
}

// NewContentRatio validates and creates a ratio policy.
func NewContentRatio(contentPct int) (ContentRatioPolicy, error) {
	if contentPct < 0 || contentPct > 100 {
		return ContentRatioPolicy{}, fmt.Errorf("content percentage out of range: %d", contentPct)
	}
	return ContentRatioPolicy{ContentPct: contentPct, GeneralPct: 100 - contentPct}, nil
}

func mustRatio(contentPct int) ContentRatioPolicy {
	return ContentRatioPolicy{ContentPct: contentPct, GeneralPct: 100 - contentPct}
}

// Ratio tiers: a monotone staircase over available content length. Even
// variants bias toward general knowledge so that an even number of variants
// never collapses to a single source mix.
var (
	ratioHeavy    = mustRatio(90)
	ratioModerate = mustRatio(80)
	ratioLight    = mustRatio(70)
	ratioSparse   = mustRatio(20)

	ratioHeavyEven    = mustRatio(60)
	ratioModerateEven = mustRatio(40)
	ratioLightEven    = mustRatio(30)
)

// RatioForContent picks the content/general split for a variant given the
// total length of available passage text. diversify enables the even-variant
// bias and is set only when content exists and multiple variants are in play.
func RatioForContent(contentLen, variantID int, diversify bool) ContentRatioPolicy {
	even := diversify && variantID%2 == 0
	switch {
	case contentLen > 500:
		if even {
			return ratioHeavyEven
		}
		return ratioHeavy
	case contentLen > 200:
		if even {
			return ratioModerateEven
		}
		return ratioModerate
	case contentLen > 50:
		if even {
			return ratioLightEven
		}
		return ratioLight
	default:
		return ratioSparse
	}
}

// HybridRatio is the split used in all-content mode when the user's topic
// diverges from what the collection actually holds.
func HybridRatio() ContentRatioPolicy { return mustRatio(60) }

// ContentFocusedRatio is the split used in all-content mode when the topic
// and the collection content agree.
func ContentFocusedRatio() ContentRatioPolicy { return mustRatio(85) }
