// Package pricing holds the storefront's pure computations: savings
// aggregation over purchase history, comparison-candidate selection, and the
// catalog filter pipeline. Functions here have no side effects and no
// dependency on the store; handlers feed them slices loaded elsewhere.
package pricing

import (
	"fmt"
	"math"

	"github.com/rindelabs/rindestore/internal/domain"
)

// GroupStat accumulates one grouping bucket (by category or by month).
type GroupStat struct {
	Count   int     `json:"count"`
	Savings float64 `json:"savings"`
	Spent   float64 `json:"spent"`
}

// SavingsStats summarizes a user's purchase history for the dashboard.
type SavingsStats struct {
	TotalSavings      float64              `json:"total_savings"`
	TotalSpent        float64              `json:"total_spent"`
	TotalOriginal     float64              `json:"total_original"`
	AvgSavingsPercent int                  `json:"avg_savings_percent"`
	TotalPurchases    int                  `json:"total_purchases"`
	ByCategory        map[string]GroupStat `json:"by_category"`
	ByMonth           map[string]GroupStat `json:"by_month"`
}

// ComputeStats reduces a purchase list into summary statistics. An empty
// input yields zero totals and empty group maps. Category keys are taken
// verbatim; the empty string is a valid, distinct bucket. Month keys are
// "YYYY-MM" from the purchase timestamp. Numeric fields are not validated.
func ComputeStats(purchases []domain.Purchase) SavingsStats {
	stats := SavingsStats{
		ByCategory: make(map[string]GroupStat),
		ByMonth:    make(map[string]GroupStat),
	}

	for _, p := range purchases {
		stats.TotalSavings += p.Savings
		stats.TotalSpent += p.DiscountPrice
		stats.TotalOriginal += p.OriginalPrice

		cat := stats.ByCategory[p.Category]
		cat.Count++
		cat.Savings += p.Savings
		cat.Spent += p.DiscountPrice
		stats.ByCategory[p.Category] = cat

		monthKey := MonthKey(p)
		month := stats.ByMonth[monthKey]
		month.Count++
		month.Savings += p.Savings
		month.Spent += p.DiscountPrice
		stats.ByMonth[monthKey] = month
	}

	stats.TotalPurchases = len(purchases)
	if stats.TotalOriginal > 0 {
		stats.AvgSavingsPercent = int(math.Round(stats.TotalSavings / stats.TotalOriginal * 100))
	}
	return stats
}

// MonthKey returns the zero-padded "YYYY-MM" grouping key for a purchase.
func MonthKey(p domain.Purchase) string {
	return fmt.Sprintf("%04d-%02d", p.PurchasedAt.Year(), int(p.PurchasedAt.Month()))
}
