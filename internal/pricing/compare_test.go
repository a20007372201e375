package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rindelabs/rindestore/internal/domain"
)

func TestSelectComparisonCheapestSameCategory(t *testing.T) {
	catalog := []domain.Product{
		{ID: 1, Category: "Limpieza", DiscountPrice: 50},
		{ID: 2, Category: "Limpieza", DiscountPrice: 30},
		{ID: 3, Category: "Bebidas", DiscountPrice: 10},
	}

	got := SelectComparison(catalog[0], catalog)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)

	// only product in its category
	assert.Nil(t, SelectComparison(catalog[2], catalog))
}

func TestSelectComparisonNeverCrossesCategory(t *testing.T) {
	target := domain.Product{ID: 1, Category: "Limpieza", Subcategory: "Pisos", DiscountPrice: 99}
	catalog := []domain.Product{
		target,
		{ID: 2, Category: "Bebidas", Subcategory: "Pisos", DiscountPrice: 1},
		{ID: 3, Category: "Limpieza", Subcategory: "Cocina", DiscountPrice: 2},
		{ID: 4, Category: "Limpieza", Subcategory: "Pisos", DiscountPrice: 80},
	}

	got := SelectComparison(target, catalog)
	require.NotNil(t, got)
	assert.Equal(t, int64(4), got.ID)
	assert.Equal(t, target.Category, got.Category)
	assert.Equal(t, target.Subcategory, got.Subcategory)
}

func TestSelectComparisonEmptySubcategoryMatchesAll(t *testing.T) {
	target := domain.Product{ID: 1, Category: "Limpieza", DiscountPrice: 10}
	catalog := []domain.Product{
		target,
		{ID: 2, Category: "Limpieza", Subcategory: "Cocina", DiscountPrice: 25},
		{ID: 3, Category: "Limpieza", Subcategory: "Pisos", DiscountPrice: 15},
	}

	got := SelectComparison(target, catalog)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.ID)
}

func TestSelectComparisonTargetCheapestStillGetsCandidate(t *testing.T) {
	// the cheapest *other* product is selected even when the target already
	// wins; the winner derivation sorts that out
	target := domain.Product{ID: 1, Category: "Limpieza", DiscountPrice: 5}
	catalog := []domain.Product{
		target,
		{ID: 2, Category: "Limpieza", DiscountPrice: 8},
	}

	got := SelectComparison(target, catalog)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)

	cmp := Compare(target, *got)
	assert.Equal(t, WinnerTarget, cmp.Winner)
	assert.Equal(t, 3.0, cmp.PriceDiff)
}

func TestSelectComparisonTieBreakLowestID(t *testing.T) {
	target := domain.Product{ID: 9, Category: "Limpieza", DiscountPrice: 50}
	catalog := []domain.Product{
		target,
		{ID: 7, Category: "Limpieza", DiscountPrice: 20},
		{ID: 3, Category: "Limpieza", DiscountPrice: 20},
		{ID: 5, Category: "Limpieza", DiscountPrice: 20},
	}

	got := SelectComparison(target, catalog)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.ID)
}

func TestSelectComparisonTinyCatalogs(t *testing.T) {
	target := domain.Product{ID: 1, Category: "Limpieza"}
	assert.Nil(t, SelectComparison(target, nil))
	assert.Nil(t, SelectComparison(target, []domain.Product{target}))
}

func TestCompareWinnerAndTies(t *testing.T) {
	a := domain.Product{ID: 1, OriginalPrice: 100, DiscountPrice: 60}
	b := domain.Product{ID: 2, OriginalPrice: 80, DiscountPrice: 60}

	cmp := Compare(a, b)
	assert.Equal(t, WinnerTarget, cmp.Winner) // target wins ties
	assert.Zero(t, cmp.PriceDiff)
	assert.Equal(t, 40, cmp.TargetSavingsPercent)
	assert.Equal(t, 25, cmp.CandidateSavingsPercent)

	b.DiscountPrice = 55
	cmp = Compare(a, b)
	assert.Equal(t, WinnerCandidate, cmp.Winner)
	assert.Equal(t, 5.0, cmp.PriceDiff)
}

func TestSavingsRatioClampAndZeroOriginal(t *testing.T) {
	assert.Equal(t, 0.0, SavingsRatio(domain.Product{OriginalPrice: 0, DiscountPrice: 10}))
	assert.Equal(t, 0.0, SavingsRatio(domain.Product{OriginalPrice: 50, DiscountPrice: 80}))
	assert.InDelta(t, 0.25, SavingsRatio(domain.Product{OriginalPrice: 100, DiscountPrice: 75}), 1e-9)
}

func TestSavingsPercentZeroOriginal(t *testing.T) {
	assert.Equal(t, 0, SavingsPercent(domain.Product{DiscountPrice: 10}))
	assert.Equal(t, 30, SavingsPercent(domain.Product{OriginalPrice: 100, DiscountPrice: 70}))
}
