package domain

import "time"

// Purchase is a user's self-reported acquisition at a snapshot of the
// product's pricing. Savings is stored at write time and never recomputed,
// so later price edits do not rewrite history. Rows are never updated.
type Purchase struct {
	ID            int64     `json:"id,string"`
	UserID        int64     `gorm:"index" json:"user_id,string"`
	ProductID     int64     `gorm:"index" json:"product_id,string"`
	ProductName   string    `json:"product_name"`
	ProductImage  string    `gorm:"size:1024" json:"product_image"`
	Category      string    `gorm:"size:128" json:"category"`
	Subcategory   string    `gorm:"size:128" json:"subcategory"`
	OriginalPrice float64   `json:"original_price"`
	DiscountPrice float64   `json:"discount_price"`
	Savings       float64   `json:"savings"`
	CostPerUse    float64   `json:"cost_per_use"`
	UsageUnit     string    `gorm:"size:32" json:"usage_unit"`
	PurchasedAt   time.Time `gorm:"index" json:"purchased_at"`
}

// TableName Specify table name
func (Purchase) TableName() string {
	return "store_purchase"
}
