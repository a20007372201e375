package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/rindelabs/rindestore/internal/webserver"
	"github.com/rindelabs/rindestore/pkg/common"
	"github.com/rindelabs/rindestore/pkg/metrics"
)

type productPayload struct {
	Name          string  `json:"name" form:"name" validate:"required,min=1,max=200"`
	Category      string  `json:"category" form:"category" validate:"required,min=1,max=128"`
	Subcategory   string  `json:"subcategory" form:"subcategory" validate:"omitempty,max=128"`
	OriginalPrice float64 `json:"original_price" form:"original_price" validate:"gte=0"`
	DiscountPrice float64 `json:"discount_price" form:"discount_price" validate:"gte=0"`
	CostPerUse    float64 `json:"cost_per_use" form:"cost_per_use" validate:"gte=0"`
	UsageUnit     string  `json:"usage_unit" form:"usage_unit" validate:"omitempty,max=32"`
	UsageAmount   string  `json:"usage_amount" form:"usage_amount" validate:"omitempty,max=64"`
	AffiliateUrl  string  `json:"affiliate_url" form:"affiliate_url" validate:"required,url,max=1024"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/store/products", listProducts)
	webserver.ApiGET("/store/products/:id", getProduct)
	webserver.ApiPOST("/store/products", createProduct)
	webserver.ApiPUT("/store/products/:id", updateProduct)
	webserver.ApiDELETE("/store/products/:id", deleteProduct)
	webserver.ApiPOST("/store/products/:id/checklink", checkProductLink)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	q := strings.TrimSpace(c.QueryParam("q"))

	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":             "id",
		"name":           "name",
		"category":       "category",
		"original_price": "original_price",
		"discount_price": "discount_price",
		"created_at":     "created_at",
		"updated_at":     "updated_at",
	}
	sortCol, okCol := allowed[sortField]
	if !okCol || sortCol == "" {
		sortCol = "created_at"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR category ILIKE ? OR subcategory ILIKE ?",
				"%"+q+"%", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(subcategory) LIKE ?", lq, lq, lq)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Order(sortCol + " " + order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
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

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	// Image goes up first; a record-write failure afterwards leaves the
	// blob orphaned (known gap, kept as-is).
	imageUrl := ""
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		imageUrl, err = webserver.Blob().SaveProductImage(fh)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_IMAGE", err.Error(), nil)
		}
	}

	now := time.Now()
	p := domain.Product{
		ID:            common.UUIDint64(),
		Name:          strings.TrimSpace(payload.Name),
		Category:      strings.TrimSpace(payload.Category),
		Subcategory:   strings.TrimSpace(payload.Subcategory),
		OriginalPrice: payload.OriginalPrice,
		DiscountPrice: payload.DiscountPrice,
		CostPerUse:    payload.CostPerUse,
		UsageUnit:     strings.TrimSpace(payload.UsageUnit),
		UsageAmount:   strings.TrimSpace(payload.UsageAmount),
		AffiliateUrl:  strings.TrimSpace(payload.AffiliateUrl),
		ImageUrl:      imageUrl,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}

	metrics.CounterInc(metrics.MetricProductWrite)
	audit(c, "product.create", fmt.Sprintf("created product %d (%s)", p.ID, p.Name))
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
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

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	// Replacement image: upload the new one, then drop the old.
	previousImage := p.ImageUrl
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		newUrl, err := webserver.Blob().SaveProductImage(fh)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_IMAGE", err.Error(), nil)
		}
		p.ImageUrl = newUrl
		if previousImage != "" {
			webserver.Blob().Delete(previousImage)
		}
	}

	p.Name = strings.TrimSpace(payload.Name)
	p.Category = strings.TrimSpace(payload.Category)
	p.Subcategory = strings.TrimSpace(payload.Subcategory)
	p.OriginalPrice = payload.OriginalPrice
	p.DiscountPrice = payload.DiscountPrice
	p.CostPerUse = payload.CostPerUse
	p.UsageUnit = strings.TrimSpace(payload.UsageUnit)
	p.UsageAmount = strings.TrimSpace(payload.UsageAmount)
	p.AffiliateUrl = strings.TrimSpace(payload.AffiliateUrl)
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}

	metrics.CounterInc(metrics.MetricProductWrite)
	audit(c, "product.update", fmt.Sprintf("updated product %d (%s)", p.ID, p.Name))
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
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

	// Image first, then the record.
	if p.ImageUrl != "" {
		webserver.Blob().Delete(p.ImageUrl)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}

	audit(c, "product.delete", fmt.Sprintf("deleted product %d (%s)", p.ID, p.Name))
	return ok(c, map[string]interface{}{"id": id})
}

// checkProductLink probes the product's affiliate URL and records the result.
func checkProductLink(c echo.Context) error {
	if !webserver.AppCtx().GetSettingsBoolValue("store", "link_check_enable") {
		return fail(c, http.StatusForbidden, "LINK_CHECK_DISABLED", "Affiliate link checks are disabled", nil)
	}

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

	state := "ok"
	var status int
	err = gout.GET(p.AffiliateUrl).SetTimeout(5 * time.Second).Code(&status).Do()
	if err != nil || status >= 400 {
		state = "failed"
	}

	now := time.Now()
	if err := GetDB(c).Model(&domain.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"link_state":      state,
		"link_checked_at": now,
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to record link state", err.Error())
	}

	audit(c, "product.checklink", fmt.Sprintf("checked link of product %d: %s", id, state))
	return ok(c, map[string]interface{}{"id": id, "link_state": state, "http_status": status, "checked_at": now})
}
