package models

import "gorm.io/gorm"

// BasketItem is one product line in a basket. LineTotal is price times
// quantity at the time the line was last touched.
type BasketItem struct {
	ID        uint     `json:"-" gorm:"primaryKey"`
	BasketID  string   `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string   `json:"productId" gorm:"type:varchar(36)" validate:"required"`
	Quantity  int      `json:"quantity" validate:"gte=1"`
	LineTotal float64  `json:"lineTotal"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ID"`
}

// Basket is a user's in-progress selection of products. Version backs the
// conditional write that serializes concurrent read-modify-write cycles.
type Basket struct {
	ID         string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string       `json:"userId" gorm:"uniqueIndex;type:varchar(36)"`
	Items      []BasketItem `json:"items" gorm:"foreignKey:BasketID"`
	TotalPrice float64      `json:"totalPrice"`
	Version    int64        `json:"-"`
	gorm.Model              // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
