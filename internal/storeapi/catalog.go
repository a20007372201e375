package storeapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/rindelabs/rindestore/internal/pricing"
	"github.com/rindelabs/rindestore/internal/webserver"
)

type comparisonResult struct {
	Target     domain.Product      `json:"target"`
	Candidate  *domain.Product     `json:"candidate"`
	Comparison *pricing.Comparison `json:"comparison"`
}

func registerCatalogRoutes() {
	webserver.PubGET("/products", listCatalog)
	webserver.PubGET("/products/:id", getCatalogProduct)
	webserver.PubGET("/products/:id/compare", compareProduct)
	webserver.PubGET("/categories", listStoreCategories)
}

// listCatalog returns the catalog newest-first with the storefront filter bar
// applied. Filtering happens in memory over the full catalog, the same shape
// the client-side pipeline had.
func listCatalog(c echo.Context) error {
	var products []domain.Product
	if err := GetDB(c).Order("created_at DESC").Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	filter := pricing.DefaultFilter()
	filter.Search = strings.TrimSpace(c.QueryParam("q"))
	if v := strings.TrimSpace(c.QueryParam("category")); v != "" {
		filter.Category = v
	}
	if v := strings.TrimSpace(c.QueryParam("subcategory")); v != "" {
		filter.Subcategory = v
	}
	if v := strings.TrimSpace(c.QueryParam("savings")); v != "" {
		filter.SavingsTier = v
	}

	return ok(c, pricing.FilterProducts(products, filter))
}

func getCatalogProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

// compareProduct picks the most relevant competitor for the product and
// returns the side-by-side verdict. A nil candidate means there was nothing
// to compare against.
func compareProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var target domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&target).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var catalog []domain.Product
	if err := GetDB(c).Where("category = ?", target.Category).Find(&catalog).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	result := comparisonResult{Target: target}
	if candidate := pricing.SelectComparison(target, catalog); candidate != nil {
		result.Candidate = candidate
		cmp := pricing.Compare(target, *candidate)
		result.Comparison = &cmp
	}
	return ok(c, result)
}

func listStoreCategories(c echo.Context) error {
	var categories []domain.Category
	if err := GetDB(c).Order("name ASC").Find(&categories).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, categories)
}
