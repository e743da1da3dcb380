package models

import "time"

// Payment records a restaurant promotion purchase
type Payment struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	TransactionID string     `json:"transaction_id" gorm:"not null"`
	UserID        uint       `json:"user_id" gorm:"not null;index"`
	User          User       `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RestaurantID  uint       `json:"restaurant_id" gorm:"not null;index"`
	Restaurant    Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// All lists every entity for auto-migration, parents first
func All() []any {
	return []any{
		&User{},
		&Verification{},
		&Category{},
		&Restaurant{},
		&Dish{},
		&Order{},
		&OrderItem{},
		&Payment{},
	}
}
