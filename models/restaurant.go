package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Category struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"uniqueIndex;not null"`
	Slug        string       `json:"slug" gorm:"uniqueIndex;not null"`
	CoverImage  string       `json:"cover_image"`
	Restaurants []Restaurant `json:"restaurants,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Slugify turns a category name into its lookup slug
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

type Restaurant struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"uniqueIndex;not null"`
	CoverImage    string     `json:"cover_image"`
	Address       string     `json:"address" gorm:"not null"`
	IsPromoted    bool       `json:"is_promoted" gorm:"not null;default:false"`
	PromotedUntil *time.Time `json:"promoted_until"`
	CategoryID    *uint      `json:"category_id"`
	Category      *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	OwnerID       uint       `json:"owner_id" gorm:"not null;index"`
	Owner         User       `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Menu          []Dish     `json:"menu,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Orders        []Order    `json:"orders,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:SET NULL"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DishChoice is one selectable value of a dish option, e.g. "Large"
type DishChoice struct {
	Name  string `json:"name"`
	Extra *int   `json:"extra,omitempty"`
}

// DishOption is a named customisation with either a flat extra or priced choices
type DishOption struct {
	Name    string       `json:"name"`
	Choices []DishChoice `json:"choices,omitempty"`
	Extra   *int         `json:"extra,omitempty"`
}

type Dish struct {
	ID           uint                             `json:"id" gorm:"primaryKey"`
	Name         string                           `json:"name" gorm:"not null"`
	Price        int                              `json:"price" gorm:"not null;check:price >= 0"`
	Photo        string                           `json:"photo"`
	Description  string                           `json:"description"`
	Options      datatypes.JSONType[[]DishOption] `json:"options"`
	RestaurantID uint                             `json:"restaurant_id" gorm:"not null;index"`
	Restaurant   *Restaurant                      `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}

// OptionExtra returns the price delta for picking choice under option name.
// A flat option extra wins over choice extras; unknown names cost nothing.
func (d *Dish) OptionExtra(name string, choice *string) int {
	for _, opt := range d.Options.Data() {
		if opt.Name != name {
			continue
		}
		if opt.Extra != nil {
			return *opt.Extra
		}
		if choice == nil {
			return 0
		}
		for _, c := range opt.Choices {
			if c.Name == *choice && c.Extra != nil {
				return *c.Extra
			}
		}
		return 0
	}
	return 0
}
