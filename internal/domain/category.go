package domain

import "time"

// Category groups products. Subcategories is an ordered list of unique names,
// persisted as a whole on every change.
type Category struct {
	ID            int64     `json:"id,string" form:"id"`
	Name          string    `gorm:"uniqueIndex;size:128" json:"name" form:"name"`
	Icon          string    `gorm:"size:16" json:"icon" form:"icon"`
	Subcategories []string  `gorm:"serializer:json" json:"subcategories" form:"subcategories"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "store_category"
}

// HasSubcategory reports whether name is already present.
func (c *Category) HasSubcategory(name string) bool {
	for _, s := range c.Subcategories {
		if s == name {
			return true
		}
	}
	return false
}
