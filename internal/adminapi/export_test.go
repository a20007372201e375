package adminapi

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rindelabs/rindestore/internal/domain"
)

func TestRenderPurchasesCsv(t *testing.T) {
	purchases := []domain.Purchase{
		{
			ID:            1,
			UserID:        2,
			ProductID:     3,
			ProductName:   "Jabón líquido",
			Category:      "limpieza",
			OriginalPrice: 100,
			DiscountPrice: 60,
			Savings:       40,
			PurchasedAt:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}

	data, err := renderPurchasesCsv(purchases)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,user_id,product_id,product_name,category,original_price,discount_price,savings,purchased_at",
		strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Jabón líquido")
	assert.Contains(t, lines[1], "40")
	assert.Contains(t, lines[1], "2024-01-15T10:00:00Z")
}

func TestRenderPurchasesCsvEmpty(t *testing.T) {
	data, err := renderPurchasesCsv(nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
}

func TestRenderProductsXlsx(t *testing.T) {
	products := []domain.Product{
		{
			ID:            10,
			Name:          "Agua mineral",
			Category:      "bebidas",
			Subcategory:   "Agua",
			OriginalPrice: 25,
			DiscountPrice: 20,
			UsageAmount:   "600",
			UsageUnit:     "ml",
			CreatedAt:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	data, err := renderProductsXlsx(products, "MXN")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "ID", wb.GetCellValue("Sheet1", "A1"))
	assert.Equal(t, "Original Price (MXN)", wb.GetCellValue("Sheet1", "E1"))
	assert.Equal(t, "Agua mineral", wb.GetCellValue("Sheet1", "B2"))
	assert.Equal(t, "600 ml", wb.GetCellValue("Sheet1", "H2"))
}
