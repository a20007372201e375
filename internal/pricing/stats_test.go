package pricing

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rindelabs/rindestore/internal/domain"
)

func purchase(category string, original, discount float64, day time.Time) domain.Purchase {
	return domain.Purchase{
		Category:      category,
		OriginalPrice: original,
		DiscountPrice: discount,
		Savings:       original - discount,
		PurchasedAt:   day,
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Zero(t, stats.TotalPurchases)
	assert.Zero(t, stats.TotalSavings)
	assert.Zero(t, stats.TotalSpent)
	assert.Zero(t, stats.TotalOriginal)
	assert.Zero(t, stats.AvgSavingsPercent)
	assert.Empty(t, stats.ByCategory)
	assert.Empty(t, stats.ByMonth)
}

func TestComputeStatsScenario(t *testing.T) {
	purchases := []domain.Purchase{
		purchase("Limpieza", 100, 70, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		purchase("Limpieza", 50, 40, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)),
	}

	stats := ComputeStats(purchases)

	assert.Equal(t, 40.0, stats.TotalSavings)
	assert.Equal(t, 110.0, stats.TotalSpent)
	assert.Equal(t, 150.0, stats.TotalOriginal)
	assert.Equal(t, 27, stats.AvgSavingsPercent)
	assert.Equal(t, 2, stats.TotalPurchases)

	require.Contains(t, stats.ByCategory, "Limpieza")
	assert.Equal(t, GroupStat{Count: 2, Savings: 40, Spent: 110}, stats.ByCategory["Limpieza"])

	require.Contains(t, stats.ByMonth, "2024-01")
	require.Contains(t, stats.ByMonth, "2024-02")
	assert.Equal(t, GroupStat{Count: 1, Savings: 30, Spent: 70}, stats.ByMonth["2024-01"])
	assert.Equal(t, GroupStat{Count: 1, Savings: 10, Spent: 40}, stats.ByMonth["2024-02"])
}

func TestComputeStatsGroupingPartitionsTotals(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var purchases []domain.Purchase
	categories := []string{"Limpieza", "Bebidas", "Despensa", ""}
	for i := 0; i < 50; i++ {
		original := float64(rng.Intn(500) + 1)
		discount := original * rng.Float64()
		day := time.Date(2023+rng.Intn(2), time.Month(rng.Intn(12)+1), rng.Intn(28)+1, 12, 0, 0, 0, time.UTC)
		purchases = append(purchases, purchase(categories[rng.Intn(len(categories))], original, discount, day))
	}

	stats := ComputeStats(purchases)

	var byCatSavings, byMonthSavings float64
	var byCatCount, byMonthCount int
	for _, g := range stats.ByCategory {
		byCatSavings += g.Savings
		byCatCount += g.Count
	}
	for _, g := range stats.ByMonth {
		byMonthSavings += g.Savings
		byMonthCount += g.Count
	}

	assert.InDelta(t, stats.TotalSavings, byCatSavings, 1e-9)
	assert.InDelta(t, stats.TotalSavings, byMonthSavings, 1e-9)
	assert.Equal(t, stats.TotalPurchases, byCatCount)
	assert.Equal(t, stats.TotalPurchases, byMonthCount)
}

func TestComputeStatsOrderIndependent(t *testing.T) {
	purchases := []domain.Purchase{
		purchase("Limpieza", 100, 70, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		purchase("Bebidas", 80, 60, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)),
		purchase("Despensa", 50, 40, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
		purchase("", 30, 30, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)),
	}
	want := ComputeStats(purchases)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]domain.Purchase, len(purchases))
		copy(shuffled, purchases)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, ComputeStats(shuffled))
	}
}

func TestComputeStatsZeroOriginal(t *testing.T) {
	purchases := []domain.Purchase{
		{Category: "Limpieza", Savings: 25, PurchasedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	stats := ComputeStats(purchases)

	// avg percent stays zero when nothing was spent at original prices,
	// regardless of recorded savings
	assert.Equal(t, 0, stats.AvgSavingsPercent)
	assert.Equal(t, 25.0, stats.TotalSavings)
}

func TestComputeStatsEmptyCategoryKeyIsDistinct(t *testing.T) {
	purchases := []domain.Purchase{
		purchase("", 100, 90, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
		purchase("Bebidas", 100, 80, time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)),
	}
	stats := ComputeStats(purchases)

	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, 1, stats.ByCategory[""].Count)
	assert.Equal(t, 1, stats.ByCategory["Bebidas"].Count)
}

func TestMonthKeyZeroPadded(t *testing.T) {
	p := domain.Purchase{PurchasedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-03", MonthKey(p))

	p.PurchasedAt = time.Date(2024, 11, 30, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2024-11", MonthKey(p))
}
