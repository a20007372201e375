package pricing

import (
	"strings"

	"github.com/rindelabs/rindestore/internal/domain"
)

// Savings tier thresholds selectable in the storefront filter bar.
const (
	TierAll = "all"
	Tier15  = "15"
	Tier25  = "25"
)

// Filter is the full set of catalog filters with their defaults spelled out.
// The zero value is not usable; build one with DefaultFilter and override.
type Filter struct {
	Search      string // case-insensitive substring over name/category/subcategory
	Category    string // "all" or an exact category name
	Subcategory string // "all" or an exact subcategory name
	SavingsTier string // TierAll, Tier15 or Tier25
}

// DefaultFilter matches every product.
func DefaultFilter() Filter {
	return Filter{
		Search:      "",
		Category:    "all",
		Subcategory: "all",
		SavingsTier: TierAll,
	}
}

// FilterProducts applies the filter to the catalog. Filters compose by
// logical AND; their order does not change the result set.
func FilterProducts(products []domain.Product, f Filter) []domain.Product {
	needle := strings.ToLower(f.Search)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !matchesSearch(p, needle) {
			continue
		}
		if f.Category != "all" && p.Category != f.Category {
			continue
		}
		if f.Subcategory != "all" && p.Subcategory != f.Subcategory {
			continue
		}
		if !matchesTier(p, f.SavingsTier) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p domain.Product, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Category), needle) {
		return true
	}
	return p.Subcategory != "" && strings.Contains(strings.ToLower(p.Subcategory), needle)
}

func matchesTier(p domain.Product, tier string) bool {
	switch tier {
	case Tier25:
		return SavingsRatio(p) >= 0.25
	case Tier15:
		return SavingsRatio(p) >= 0.15
	default:
		return true
	}
}
