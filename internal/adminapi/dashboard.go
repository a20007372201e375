package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/rindelabs/rindestore/internal/pricing"
	"github.com/rindelabs/rindestore/internal/webserver"
	"github.com/rindelabs/rindestore/pkg/metrics"
)

// dashboardStats mirrors the admin panel's headline cards plus a catalog
// price summary.
type dashboardStats struct {
	TotalProducts      int64   `json:"total_products"`
	TotalCategories    int64   `json:"total_categories"`
	TotalSubcategories int     `json:"total_subcategories"`
	RecentProducts     int64   `json:"recent_products"`
	MeanSavingsRatio   float64 `json:"mean_savings_ratio"`
	MedianSavingsRatio float64 `json:"median_savings_ratio"`
	ApiRequests        int64   `json:"api_requests"`
	Logins             int64   `json:"logins"`
}

func registerDashboardRoutes() {
	webserver.ApiGET("/store/dashboard", getDashboard)
}

func getDashboard(c echo.Context) error {
	db := GetDB(c)

	recentDays := webserver.AppCtx().GetSettingsInt64Value("store", "recent_days")
	if recentDays <= 0 {
		recentDays = 7
	}
	since := time.Now().AddDate(0, 0, -int(recentDays))

	var result dashboardStats
	var categories []domain.Category
	var products []domain.Product

	// independent counts, gathered concurrently
	g := new(errgroup.Group)
	g.Go(func() error {
		return db.Model(&domain.Product{}).Count(&result.TotalProducts).Error
	})
	g.Go(func() error {
		return db.Model(&domain.Product{}).Where("created_at > ?", since).Count(&result.RecentProducts).Error
	})
	g.Go(func() error {
		return db.Model(&domain.Category{}).Count(&result.TotalCategories).Error
	})
	g.Go(func() error {
		return db.Find(&categories).Error
	})
	g.Go(func() error {
		return db.Find(&products).Error
	})
	if err := g.Wait(); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to gather dashboard stats", err.Error())
	}

	for _, cat := range categories {
		result.TotalSubcategories += len(cat.Subcategories)
	}

	if len(products) > 0 {
		ratios := make([]float64, 0, len(products))
		for _, p := range products {
			ratios = append(ratios, pricing.SavingsRatio(p))
		}
		result.MeanSavingsRatio, _ = stats.Mean(ratios)
		result.MedianSavingsRatio, _ = stats.Median(ratios)
	}

	result.ApiRequests = metrics.CountSince(metrics.MetricApiRequest, since)
	result.Logins = metrics.CountSince(metrics.MetricAuthLogin, since)

	return ok(c, result)
}
