package pricing

import (
	"math"
	"sort"

	"github.com/rindelabs/rindestore/internal/domain"
)

// Winner values for a price comparison.
const (
	WinnerTarget    = "target"
	WinnerCandidate = "candidate"
)

// Comparison is the side-by-side verdict between a chosen product and its
// selected competitor.
type Comparison struct {
	Winner                  string  `json:"winner"`
	PriceDiff               float64 `json:"price_diff"`
	TargetSavingsPercent    int     `json:"target_savings_percent"`
	CandidateSavingsPercent int     `json:"candidate_savings_percent"`
}

// SelectComparison picks the most relevant competitor for target out of the
// catalog: same category, same subcategory when the target has one, cheapest
// by discount price. Equal cheapest candidates are broken by lowest ID so the
// choice is deterministic. Returns nil when no candidate exists; the caller
// renders a "nothing to compare" state.
func SelectComparison(target domain.Product, catalog []domain.Product) *domain.Product {
	var candidates []domain.Product
	for _, p := range catalog {
		if p.ID == target.ID || p.Category != target.Category {
			continue
		}
		if target.Subcategory != "" && p.Subcategory != target.Subcategory {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DiscountPrice != candidates[j].DiscountPrice {
			return candidates[i].DiscountPrice < candidates[j].DiscountPrice
		}
		return candidates[i].ID < candidates[j].ID
	})

	chosen := candidates[0]
	return &chosen
}

// Compare derives the winner and price delta between target and candidate.
// The target wins ties.
func Compare(target, candidate domain.Product) Comparison {
	winner := WinnerCandidate
	if target.DiscountPrice <= candidate.DiscountPrice {
		winner = WinnerTarget
	}
	return Comparison{
		Winner:                  winner,
		PriceDiff:               math.Abs(target.DiscountPrice - candidate.DiscountPrice),
		TargetSavingsPercent:    SavingsPercent(target),
		CandidateSavingsPercent: SavingsPercent(candidate),
	}
}

// SavingsRatio is 1 - discount/original clamped to >= 0, or 0 when the
// original price is zero.
func SavingsRatio(p domain.Product) float64 {
	if p.OriginalPrice == 0 {
		return 0
	}
	return math.Max(0, 1-p.DiscountPrice/p.OriginalPrice)
}

// SavingsPercent is the rounded percentage form of 1 - discount/original,
// unclamped, matching the badge shown on product cards.
func SavingsPercent(p domain.Product) int {
	if p.OriginalPrice == 0 {
		return 0
	}
	return int(math.Round((1 - p.DiscountPrice/p.OriginalPrice) * 100))
}
