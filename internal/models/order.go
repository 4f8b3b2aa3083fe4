package models

import "gorm.io/gorm"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCanceled  OrderStatus = "Canceled"
	StatusCompleted OrderStatus = "Completed"
)

// orderTransitions is the full transition table. Canceled and Completed
// are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusCanceled, StatusCompleted},
}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCanceled, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the transition s -> next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// OrderItem is a single product line within an order.
type OrderItem struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	OrderID   string `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string `json:"productId" gorm:"type:varchar(36)" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// Order represents a customer order.
type Order struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID    string      `json:"ownerId" gorm:"index;type:varchar(36)"`
	Items      []OrderItem `json:"products" gorm:"foreignKey:OrderID"`
	Status     OrderStatus `json:"status" gorm:"type:varchar(20)"`
	gorm.Model             // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
