package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/rindelabs/rindestore/internal/webserver"
)

type purchaseCsvRow struct {
	ID            int64   `csv:"id"`
	UserID        int64   `csv:"user_id"`
	ProductID     int64   `csv:"product_id"`
	ProductName   string  `csv:"product_name"`
	Category      string  `csv:"category"`
	OriginalPrice float64 `csv:"original_price"`
	DiscountPrice float64 `csv:"discount_price"`
	Savings       float64 `csv:"savings"`
	PurchasedAt   string  `csv:"purchased_at"`
}

func registerExportRoutes() {
	webserver.ApiGET("/store/export/purchases", exportPurchasesCsv)
	webserver.ApiGET("/store/export/products", exportProductsXlsx)
}

// renderPurchasesCsv builds the full CSV in memory so a marshal failure can
// still be reported as an error response instead of a truncated download.
func renderPurchasesCsv(purchases []domain.Purchase) ([]byte, error) {
	rows := make([]purchaseCsvRow, 0, len(purchases))
	for _, p := range purchases {
		rows = append(rows, purchaseCsvRow{
			ID:            p.ID,
			UserID:        p.UserID,
			ProductID:     p.ProductID,
			ProductName:   p.ProductName,
			Category:      p.Category,
			OriginalPrice: p.OriginalPrice,
			DiscountPrice: p.DiscountPrice,
			Savings:       p.Savings,
			PurchasedAt:   p.PurchasedAt.Format(time.RFC3339),
		})
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPurchasesCsv(c echo.Context) error {
	var purchases []domain.Purchase
	if err := GetDB(c).Order("purchased_at DESC").Find(&purchases).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query purchases", err.Error())
	}

	data, err := renderPurchasesCsv(purchases)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to build CSV", err.Error())
	}

	audit(c, "export.purchases", fmt.Sprintf("exported %d purchases as CSV", len(purchases)))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="purchases.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

// renderProductsXlsx builds the catalog workbook in memory, one product per
// row under a fixed header.
func renderProductsXlsx(products []domain.Product, currency string) ([]byte, error) {
	// prices rendered with es-MX thousand separators
	printer := message.NewPrinter(language.Spanish)

	sheet := "Sheet1"
	xlsx := excelize.NewFile()
	headers := []string{"ID", "Name", "Category", "Subcategory",
		"Original Price (" + currency + ")", "Discount Price (" + currency + ")",
		"Cost Per Use", "Usage", "Affiliate URL", "Link State", "Created At"}
	for i, h := range headers {
		xlsx.SetCellValue(sheet, fmt.Sprintf("%s1", excelize.ToAlphaString(i)), h)
	}

	for i, p := range products {
		row := i + 2
		usage := p.UsageAmount
		if p.UsageUnit != "" {
			usage = usage + " " + p.UsageUnit
		}
		xlsx.SetCellValue(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%d", p.ID))
		xlsx.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Name)
		xlsx.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Category)
		xlsx.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.Subcategory)
		xlsx.SetCellValue(sheet, fmt.Sprintf("E%d", row), printer.Sprintf("%.2f", p.OriginalPrice))
		xlsx.SetCellValue(sheet, fmt.Sprintf("F%d", row), printer.Sprintf("%.2f", p.DiscountPrice))
		xlsx.SetCellValue(sheet, fmt.Sprintf("G%d", row), printer.Sprintf("%.2f", p.CostPerUse))
		xlsx.SetCellValue(sheet, fmt.Sprintf("H%d", row), usage)
		xlsx.SetCellValue(sheet, fmt.Sprintf("I%d", row), p.AffiliateUrl)
		xlsx.SetCellValue(sheet, fmt.Sprintf("J%d", row), p.LinkState)
		xlsx.SetCellValue(sheet, fmt.Sprintf("K%d", row), p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := xlsx.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportProductsXlsx(c echo.Context) error {
	var products []domain.Product
	if err := GetDB(c).Order("category ASC, name ASC").Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	currency := webserver.AppCtx().GetSettingsStringValue("store", "currency")
	if currency == "" {
		currency = "MXN"
	}

	data, err := renderProductsXlsx(products, currency)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to build workbook", err.Error())
	}

	audit(c, "export.products", fmt.Sprintf("exported %d products as XLSX", len(products)))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
