package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rindelabs/rindestore/internal/domain"
)

func sampleCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Jabón líquido", Category: "Limpieza", Subcategory: "Cocina", OriginalPrice: 100, DiscountPrice: 70},
		{ID: 2, Name: "Detergente", Category: "Limpieza", Subcategory: "Ropa", OriginalPrice: 80, DiscountPrice: 72},
		{ID: 3, Name: "Agua mineral", Category: "Bebidas", OriginalPrice: 20, DiscountPrice: 20},
		{ID: 4, Name: "Café de grano", Category: "Despensa", Subcategory: "Café", OriginalPrice: 200, DiscountPrice: 150},
	}
}

func ids(products []domain.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterProductsDefaultsMatchAll(t *testing.T) {
	got := FilterProducts(sampleCatalog(), DefaultFilter())
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(got))
}

func TestFilterProductsSearchIsCaseInsensitive(t *testing.T) {
	f := DefaultFilter()
	f.Search = "LIMPIEZA"
	assert.Equal(t, []int64{1, 2}, ids(FilterProducts(sampleCatalog(), f)))

	f.Search = "café"
	assert.Equal(t, []int64{4}, ids(FilterProducts(sampleCatalog(), f)))

	f.Search = "no-such-product"
	assert.Empty(t, FilterProducts(sampleCatalog(), f))
}

func TestFilterProductsCategoryAndSubcategory(t *testing.T) {
	f := DefaultFilter()
	f.Category = "Limpieza"
	assert.Equal(t, []int64{1, 2}, ids(FilterProducts(sampleCatalog(), f)))

	f.Subcategory = "Cocina"
	assert.Equal(t, []int64{1}, ids(FilterProducts(sampleCatalog(), f)))
}

func TestFilterProductsSavingsTierBoundary(t *testing.T) {
	catalog := []domain.Product{
		{ID: 1, OriginalPrice: 1000000, DiscountPrice: 750001, Category: "X"}, // ratio 0.249999
		{ID: 2, OriginalPrice: 100, DiscountPrice: 75, Category: "X"},         // ratio 0.25 exactly
		{ID: 3, OriginalPrice: 100, DiscountPrice: 84, Category: "X"},         // ratio 0.16
		{ID: 4, OriginalPrice: 0, DiscountPrice: 0, Category: "X"},            // ratio 0
	}

	f := DefaultFilter()
	f.SavingsTier = Tier25
	assert.Equal(t, []int64{2}, ids(FilterProducts(catalog, f)))

	f.SavingsTier = Tier15
	assert.Equal(t, []int64{1, 2, 3}, ids(FilterProducts(catalog, f)))

	f.SavingsTier = TierAll
	assert.Len(t, FilterProducts(catalog, f), 4)
}

func TestFilterProductsFiltersCompose(t *testing.T) {
	f := DefaultFilter()
	f.Search = "e"
	f.Category = "Limpieza"
	f.SavingsTier = Tier25

	// only the soap clears all three filters at once
	assert.Equal(t, []int64{1}, ids(FilterProducts(sampleCatalog(), f)))
}
