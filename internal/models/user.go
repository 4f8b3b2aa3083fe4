package models

import "gorm.io/gorm"

// User represents a registered account.
type User struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username     string  `json:"username" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Email        string  `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	PasswordHash string  `json:"-" gorm:"type:varchar(255)"`
	IsAdmin      bool    `json:"isAdmin"`
	BasketID     *string `json:"basketId,omitempty" gorm:"type:varchar(36)"` // set lazily on first add-to-basket
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
