package storeapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/rindelabs/rindestore/internal/pricing"
	"github.com/rindelabs/rindestore/internal/webserver"
	"github.com/rindelabs/rindestore/pkg/common"
	"github.com/rindelabs/rindestore/pkg/metrics"
)

type purchasePayload struct {
	ProductID int64 `json:"product_id,string" validate:"required"`
}

func registerPurchaseRoutes() {
	webserver.UserGET("/purchases", listPurchases)
	webserver.UserPOST("/purchases", createPurchase)
	webserver.UserDELETE("/purchases/:id", deletePurchase)
	webserver.UserGET("/purchases/stats", getPurchaseStats)
}

// listPurchases returns the user's history newest-first, optionally bounded
// by from/to timestamps in any common format.
func listPurchases(c echo.Context) error {
	claims := webserver.GetUserClaims(c)

	query := GetDB(c).Where("user_id = ?", claims.UserID)
	if v := strings.TrimSpace(c.QueryParam("from")); v != "" {
		t, err := dateparse.ParseLocal(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse from date", nil)
		}
		query = query.Where("purchased_at >= ?", t)
	}
	if v := strings.TrimSpace(c.QueryParam("to")); v != "" {
		t, err := dateparse.ParseLocal(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse to date", nil)
		}
		query = query.Where("purchased_at <= ?", t)
	}

	var purchases []domain.Purchase
	if err := query.Order("purchased_at DESC").Find(&purchases).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query purchases", err.Error())
	}
	return ok(c, purchases)
}

// createPurchase records an acquisition at the product's current pricing.
// The snapshot is taken server-side so clients cannot report prices the
// catalog never had, and savings is frozen at write time.
func createPurchase(c echo.Context) error {
	claims := webserver.GetUserClaims(c)

	var payload purchasePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse purchase parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var product domain.Product
	err := GetDB(c).Where("id = ?", payload.ProductID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	purchase := domain.Purchase{
		ID:            common.UUIDint64(),
		UserID:        claims.UserID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		ProductImage:  product.ImageUrl,
		Category:      product.Category,
		Subcategory:   product.Subcategory,
		OriginalPrice: product.OriginalPrice,
		DiscountPrice: product.DiscountPrice,
		Savings:       product.OriginalPrice - product.DiscountPrice,
		CostPerUse:    product.CostPerUse,
		UsageUnit:     product.UsageUnit,
		PurchasedAt:   time.Now(),
	}
	if err := GetDB(c).Create(&purchase).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to record purchase", err.Error())
	}

	metrics.CounterInc(metrics.MetricPurchaseWrite)
	return ok(c, purchase)
}

func deletePurchase(c echo.Context) error {
	claims := webserver.GetUserClaims(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid purchase ID", nil)
	}

	// owner-only: the user_id predicate keeps other users' rows unreachable
	res := GetDB(c).Where("id = ? AND user_id = ?", id, claims.UserID).Delete(&domain.Purchase{})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete purchase", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "PURCHASE_NOT_FOUND", "Purchase not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

// getPurchaseStats reduces the user's full history into dashboard totals.
func getPurchaseStats(c echo.Context) error {
	claims := webserver.GetUserClaims(c)

	var purchases []domain.Purchase
	if err := GetDB(c).Where("user_id = ?", claims.UserID).Find(&purchases).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query purchases", err.Error())
	}
	return ok(c, pricing.ComputeStats(purchases))
}
