package domain

import "time"

// Product is a published affiliate offer. OriginalPrice and DiscountPrice are
// independent fields; the store does not enforce discount <= original.
type Product struct {
	ID            int64     `json:"id,string" form:"id"`
	Name          string    `gorm:"index" json:"name" form:"name"`
	Category      string    `gorm:"index;size:128" json:"category" form:"category"`
	Subcategory   string    `gorm:"size:128" json:"subcategory" form:"subcategory"`
	OriginalPrice float64   `json:"original_price" form:"original_price"`
	DiscountPrice float64   `json:"discount_price" form:"discount_price"`
	CostPerUse    float64   `json:"cost_per_use" form:"cost_per_use"`
	UsageUnit     string    `gorm:"size:32" json:"usage_unit" form:"usage_unit"` // e.g. "ml", "L", "kg", "pzas"
	UsageAmount   string    `gorm:"size:64" json:"usage_amount" form:"usage_amount"`
	AffiliateUrl  string    `gorm:"size:1024" json:"affiliate_url" form:"affiliate_url"`
	ImageUrl      string    `gorm:"size:1024" json:"image_url" form:"image_url"`
	LinkState     string    `gorm:"size:16" json:"link_state"` // last affiliate link check: "", "ok", "failed"
	LinkCheckedAt time.Time `json:"link_checked_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "store_product"
}
