package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/rindelabs/rindestore/internal/webserver"
	"github.com/rindelabs/rindestore/pkg/common"
)

type categoryPayload struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
	Icon string `json:"icon" validate:"omitempty,max=16"`
}

type categoryUpdatePayload struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=128"`
	Icon *string `json:"icon" validate:"omitempty,max=16"`
}

type subcategoryPayload struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// registerCategoryRoutes registers category CRUD routes
func registerCategoryRoutes() {
	webserver.ApiGET("/store/categories", listCategories)
	webserver.ApiPOST("/store/categories", createCategory)
	webserver.ApiPUT("/store/categories/:id", updateCategory)
	webserver.ApiDELETE("/store/categories/:id", deleteCategory)
	webserver.ApiPOST("/store/categories/:id/subcategories", addSubcategory)
	webserver.ApiDELETE("/store/categories/:id/subcategories/:name", removeSubcategory)
}

func listCategories(c echo.Context) error {
	var categories []domain.Category
	if err := GetDB(c).Order("name ASC").Find(&categories).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, categories)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	payload.Name = strings.TrimSpace(payload.Name)

	var exists int64
	GetDB(c).Model(&domain.Category{}).Where("name = ?", payload.Name).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "CATEGORY_EXISTS", "Category name already exists", nil)
	}

	category := domain.Category{
		ID:            common.UUIDint64(),
		Name:          payload.Name,
		Icon:          payload.Icon,
		Subcategories: []string{},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := GetDB(c).Create(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}

	audit(c, "category.create", fmt.Sprintf("created category %d (%s)", category.ID, category.Name))
	return ok(c, category)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	var payload categoryUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var category domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&category).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	if payload.Name != nil {
		name := strings.TrimSpace(*payload.Name)
		if name != category.Name {
			var exists int64
			GetDB(c).Model(&domain.Category{}).Where("name = ? AND id != ?", name, id).Count(&exists)
			if exists > 0 {
				return fail(c, http.StatusConflict, "CATEGORY_EXISTS", "Category name already exists", nil)
			}
			category.Name = name
		}
	}
	if payload.Icon != nil {
		category.Icon = *payload.Icon
	}
	category.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}

	audit(c, "category.update", fmt.Sprintf("updated category %d (%s)", category.ID, category.Name))
	return ok(c, category)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	var category domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&category).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	// Prevent deletion while products still reference the category
	var productCount int64
	GetDB(c).Model(&domain.Product{}).Where("category = ?", category.Name).Count(&productCount)
	if productCount > 0 {
		return fail(c, http.StatusConflict, "CATEGORY_IN_USE", "Category is in use by products and cannot be deleted",
			map[string]interface{}{"product_count": productCount})
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Category{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}

	audit(c, "category.delete", fmt.Sprintf("deleted category %d (%s)", category.ID, category.Name))
	return ok(c, map[string]interface{}{"id": id})
}

func addSubcategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	var payload subcategoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse subcategory parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var category domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&category).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	name := strings.TrimSpace(payload.Name)
	if category.HasSubcategory(name) {
		return fail(c, http.StatusConflict, "SUBCATEGORY_EXISTS", "Subcategory already exists", nil)
	}

	// the full list is rewritten on every change
	category.Subcategories = append(category.Subcategories, name)
	category.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update subcategories", err.Error())
	}

	audit(c, "category.subcategory.add", fmt.Sprintf("added subcategory %q to category %d", name, id))
	return ok(c, category)
}

func removeSubcategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	name := c.Param("name")

	var category domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&category).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	kept := make([]string, 0, len(category.Subcategories))
	for _, s := range category.Subcategories {
		if s != name {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(category.Subcategories) {
		return fail(c, http.StatusNotFound, "SUBCATEGORY_NOT_FOUND", "Subcategory not found", nil)
	}

	category.Subcategories = kept
	category.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update subcategories", err.Error())
	}

	audit(c, "category.subcategory.remove", fmt.Sprintf("removed subcategory %q from category %d", name, id))
	return ok(c, category)
}
