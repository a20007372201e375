package storeapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/rindelabs/rindestore/internal/webserver"
	"github.com/rindelabs/rindestore/pkg/common"
	"github.com/rindelabs/rindestore/pkg/metrics"
)

func registerFavoriteRoutes() {
	webserver.UserGET("/favorites", listFavorites)
	webserver.UserPOST("/favorites/:productId", addFavorite)
	webserver.UserDELETE("/favorites/:productId", removeFavorite)
	webserver.UserPUT("/favorites/:productId/toggle", toggleFavorite)
}

// markFavorite inserts the pair. Only a duplicate mark is absorbed; the
// unique (user, product) index reports it as gorm.ErrDuplicatedKey. Any
// other store error propagates to the caller.
func markFavorite(db *gorm.DB, userID, productID int64) error {
	err := db.Create(&domain.Favorite{
		ID:        common.UUIDint64(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// flipFavorite removes the pair if present, else inserts it, in one
// transaction. Returns the resulting membership. The unique index on
// (user, product) makes concurrent flips settle on one row at most.
func flipFavorite(db *gorm.DB, userID, productID int64) (bool, error) {
	favorite := false
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&domain.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		favorite = true
		return tx.Create(&domain.Favorite{
			ID:        common.UUIDint64(),
			UserID:    userID,
			ProductID: productID,
			CreatedAt: time.Now(),
		}).Error
	})
	return favorite, err
}

// listFavorites returns the product IDs the user has marked, newest first.
func listFavorites(c echo.Context) error {
	claims := webserver.GetUserClaims(c)

	var favorites []domain.Favorite
	if err := GetDB(c).Where("user_id = ?", claims.UserID).Order("created_at DESC").Find(&favorites).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query favorites", err.Error())
	}

	ids := make([]int64, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ProductID)
	}
	return ok(c, map[string]interface{}{"product_ids": ids})
}

func addFavorite(c echo.Context) error {
	claims := webserver.GetUserClaims(c)
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var productCount int64
	GetDB(c).Model(&domain.Product{}).Where("id = ?", productID).Count(&productCount)
	if productCount == 0 {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}

	if err := markFavorite(GetDB(c), claims.UserID, productID); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to add favorite", err.Error())
	}

	metrics.CounterInc(metrics.MetricFavoriteToggle)
	return ok(c, map[string]interface{}{"product_id": productID, "favorite": true})
}

func removeFavorite(c echo.Context) error {
	claims := webserver.GetUserClaims(c)
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	if err := GetDB(c).Where("user_id = ? AND product_id = ?", claims.UserID, productID).
		Delete(&domain.Favorite{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to remove favorite", err.Error())
	}

	metrics.CounterInc(metrics.MetricFavoriteToggle)
	return ok(c, map[string]interface{}{"product_id": productID, "favorite": false})
}

func toggleFavorite(c echo.Context) error {
	claims := webserver.GetUserClaims(c)
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var productCount int64
	GetDB(c).Model(&domain.Product{}).Where("id = ?", productID).Count(&productCount)
	if productCount == 0 {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}

	favorite, err := flipFavorite(GetDB(c), claims.UserID, productID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to toggle favorite", err.Error())
	}

	metrics.CounterInc(metrics.MetricFavoriteToggle)
	return ok(c, map[string]interface{}{"product_id": productID, "favorite": favorite})
}
