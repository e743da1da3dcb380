package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrderStatus represents all possible states of a food delivery order
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCooking   OrderStatus = "Cooking"
	StatusCooked    OrderStatus = "Cooked"
	StatusPickedUp  OrderStatus = "PickedUp"
	StatusDelivered OrderStatus = "Delivered"
)

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCooking, StatusCooked, StatusPickedUp, StatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	CustomerID   *uint       `json:"customer_id" gorm:"index"`
	Customer     *User       `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
	DriverID     *uint       `json:"driver_id" gorm:"index"`
	Driver       *User       `json:"driver,omitempty" gorm:"foreignKey:DriverID;constraint:OnDelete:SET NULL"`
	RestaurantID *uint       `json:"restaurant_id" gorm:"index"`
	Restaurant   *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:SET NULL"`
	Items        []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Total        int         `json:"total"`
	Status       OrderStatus `json:"status" gorm:"not null;default:'Pending'"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// OwnerID returns the owner of the order's restaurant, or 0 when it is not loaded
func (o *Order) OwnerID() uint {
	if o.Restaurant == nil {
		return 0
	}
	return o.Restaurant.OwnerID
}

// OrderItemOption is the customer's pick for one dish option
type OrderItemOption struct {
	Name   string  `json:"name"`
	Choice *string `json:"choice,omitempty"`
}

type OrderItem struct {
	ID        uint                                  `json:"id" gorm:"primaryKey"`
	OrderID   uint                                  `json:"order_id" gorm:"not null;index"`
	DishID    uint                                  `json:"dish_id" gorm:"not null"`
	Dish      Dish                                  `json:"dish,omitempty" gorm:"foreignKey:DishID;constraint:OnDelete:CASCADE"`
	Options   datatypes.JSONType[[]OrderItemOption] `json:"options"`
	CreatedAt time.Time                             `json:"created_at"`
	UpdatedAt time.Time                             `json:"updated_at"`
}
