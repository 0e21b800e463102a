package rating

import (
	"math"

	"keyhubcentral/models"
)

// Category weights for the derived overall score. They must sum to 1.0;
// customer feedback carries double the weight of any internal measure.
const (
	CustomerWeight = 0.4
	SpeedWeight    = 0.2
	WarrantyWeight = 0.2
	InternalWeight = 0.2
)

// Bounds of the category scale and the neutral score a new or reset
// contractor starts at.
const (
	MinCategoryScore     = 1.0
	MaxCategoryScore     = 5.0
	NeutralCategoryScore = 3.0
)

// Tier is the commission band derived from the overall score.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPro      Tier = "pro"
	TierElite    Tier = "elite"
)

// Overall-score breakpoints for tier membership.
const (
	ProThreshold   = 4.0
	EliteThreshold = 4.5
)

// Commission rates per tier, from the published commission table.
const (
	StandardCommissionRate = 0.08
	ProCommissionRate      = 0.09
	EliteCommissionRate    = 0.10
)

// CategoryUpdate is a partial rating edit; nil fields are left untouched.
type CategoryUpdate struct {
	Customer *float64 `json:"customer,omitempty"`
	Speed    *float64 `json:"speed,omitempty"`
	Warranty *float64 `json:"warranty,omitempty"`
	Internal *float64 `json:"internal,omitempty"`
}

// UpdateRating applies a partial category update to a rating and recomputes
// the overall score. Supplied values are clamped to the category scale.
// Pure function; idempotent under re-application of the same update.
func UpdateRating(current models.Rating, update CategoryUpdate) models.Rating {
	next := current
	if update.Customer != nil {
		next.Customer = clampCategory(*update.Customer)
	}
	if update.Speed != nil {
		next.Speed = clampCategory(*update.Speed)
	}
	if update.Warranty != nil {
		next.Warranty = clampCategory(*update.Warranty)
	}
	if update.Internal != nil {
		next.Internal = clampCategory(*update.Internal)
	}
	next.Overall = Overall(next)
	return next
}

// Overall computes the weighted overall score, rounded to one decimal. The
// formula always uses four terms: an unset category counts as the neutral
// score, not as zero and not as a dropped term.
func Overall(r models.Rating) float64 {
	sum := categoryOrNeutral(r.Customer)*CustomerWeight +
		categoryOrNeutral(r.Speed)*SpeedWeight +
		categoryOrNeutral(r.Warranty)*WarrantyWeight +
		categoryOrNeutral(r.Internal)*InternalWeight
	return RoundScore(sum)
}

// NeutralRating is the rating assigned on onboarding and by a reset.
func NeutralRating() models.Rating {
	r := models.Rating{
		Customer: NeutralCategoryScore,
		Speed:    NeutralCategoryScore,
		Warranty: NeutralCategoryScore,
		Internal: NeutralCategoryScore,
	}
	r.Overall = Overall(r)
	return r
}

// TierFor maps an overall score to its commission tier.
func TierFor(overall float64) Tier {
	switch {
	case overall >= EliteThreshold:
		return TierElite
	case overall >= ProThreshold:
		return TierPro
	default:
		return TierStandard
	}
}

// CommissionRateFor returns the fixed rate for a tier.
func CommissionRateFor(tier Tier) float64 {
	switch tier {
	case TierElite:
		return EliteCommissionRate
	case TierPro:
		return ProCommissionRate
	default:
		return StandardCommissionRate
	}
}

// RoundScore rounds to one decimal, the precision every stored score uses.
func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampCategory(v float64) float64 {
	if v < MinCategoryScore {
		return MinCategoryScore
	}
	if v > MaxCategoryScore {
		return MaxCategoryScore
	}
	return v
}

func categoryOrNeutral(v float64) float64 {
	if v == 0 {
		return NeutralCategoryScore
	}
	return v
}
