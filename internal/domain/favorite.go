package domain

import "time"

// Favorite links a user to a product. The composite unique index stands in
// for the deterministic userId_productId document key: at most one row may
// exist per pair, which makes the toggle operation atomic at the store level.
type Favorite struct {
	ID        int64     `json:"id,string"`
	UserID    int64     `gorm:"index;uniqueIndex:idx_favorite_user_product" json:"user_id,string"`
	ProductID int64     `gorm:"uniqueIndex:idx_favorite_user_product" json:"product_id,string"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (Favorite) TableName() string {
	return "store_favorite"
}
