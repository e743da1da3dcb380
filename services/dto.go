// Package services holds the domain operations behind the GraphQL API.
//
// Operations never return Go errors for domain failures. Each one returns an
// output struct embedding CoreOutput; unexpected store errors are logged and
// replaced by a generic message.
package services

import (
	"math"

	"food-delivery-graphql/models"
)

type CoreOutput struct {
	Ok    bool
	Error string
}

func ok() CoreOutput { return CoreOutput{Ok: true} }

func fail(msg string) CoreOutput { return CoreOutput{Error: msg} }

// PaginationOutput is shared by every paged listing
type PaginationOutput struct {
	CoreOutput
	TotalPages   int
	TotalResults int
}

func totalPages(total int64, perPage int) int {
	return int(math.Ceil(float64(total) / float64(perPage)))
}

func offset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}

// users

type CreateAccountInput struct {
	Email    string
	Password string
	Role     models.UserRole
}

type CreateAccountOutput struct{ CoreOutput }

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	CoreOutput
	Token string
}

type UserProfileOutput struct {
	CoreOutput
	User *models.User
}

type EditProfileInput struct {
	Email    *string
	Password *string
}

type EditProfileOutput struct{ CoreOutput }

type VerifyEmailOutput struct{ CoreOutput }

// restaurants

type CreateRestaurantInput struct {
	Name         string
	Address      string
	CoverImage   string
	CategoryName string
}

type CreateRestaurantOutput struct {
	CoreOutput
	RestaurantID uint
}

type EditRestaurantInput struct {
	RestaurantID uint
	Name         *string
	Address      *string
	CoverImage   *string
	CategoryName *string
}

type EditRestaurantOutput struct{ CoreOutput }

type DeleteRestaurantOutput struct{ CoreOutput }

type MyRestaurantsOutput struct {
	CoreOutput
	Restaurants []models.Restaurant
}

type MyRestaurantOutput struct {
	CoreOutput
	Restaurant *models.Restaurant
}

type AllCategoriesOutput struct {
	CoreOutput
	Categories []models.Category
}

type CategoryInput struct {
	Slug string
	Page int
}

type CategoryOutput struct {
	PaginationOutput
	Category    *models.Category
	Restaurants []models.Restaurant
}

type RestaurantsOutput struct {
	PaginationOutput
	Results []models.Restaurant
}

type RestaurantOutput struct {
	CoreOutput
	Restaurant *models.Restaurant
}

type SearchRestaurantInput struct {
	Query string
	Page  int
}

type SearchRestaurantOutput struct {
	PaginationOutput
	Restaurants []models.Restaurant
}

type CreateDishInput struct {
	RestaurantID uint
	Name         string
	Price        int
	Photo        string
	Description  string
	Options      []models.DishOption
}

type CreateDishOutput struct {
	CoreOutput
	DishID uint
}

type EditDishInput struct {
	DishID      uint
	Name        *string
	Price       *int
	Photo       *string
	Description *string
	Options     *[]models.DishOption
}

type EditDishOutput struct{ CoreOutput }

type DeleteDishOutput struct{ CoreOutput }

// orders

type CreateOrderItemInput struct {
	DishID  uint
	Options []models.OrderItemOption
}

type CreateOrderInput struct {
	RestaurantID uint
	Items        []CreateOrderItemInput
}

type CreateOrderOutput struct {
	CoreOutput
	OrderID uint
}

type GetOrdersInput struct {
	Status *models.OrderStatus
}

type GetOrdersOutput struct {
	CoreOutput
	Orders []models.Order
}

type GetOrderOutput struct {
	CoreOutput
	Order *models.Order
}

type EditOrderInput struct {
	ID     uint
	Status models.OrderStatus
}

type EditOrderOutput struct{ CoreOutput }

type TakeOrderOutput struct{ CoreOutput }

// OrderEvent is the payload published on every order topic
type OrderEvent struct {
	OrderID      uint               `json:"orderId"`
	RestaurantID uint               `json:"restaurantId"`
	OwnerID      uint               `json:"ownerId"`
	CustomerID   uint               `json:"customerId"`
	DriverID     uint               `json:"driverId"`
	Status       models.OrderStatus `json:"status"`
	Total        int                `json:"total"`
}

func eventFor(o *models.Order) OrderEvent {
	ev := OrderEvent{
		OrderID: o.ID,
		OwnerID: o.OwnerID(),
		Status:  o.Status,
		Total:   o.Total,
	}
	if o.RestaurantID != nil {
		ev.RestaurantID = *o.RestaurantID
	}
	if o.CustomerID != nil {
		ev.CustomerID = *o.CustomerID
	}
	if o.DriverID != nil {
		ev.DriverID = *o.DriverID
	}
	return ev
}

// payments

type CreatePaymentInput struct {
	TransactionID string
	RestaurantID  uint
}

type CreatePaymentOutput struct{ CoreOutput }

type GetPaymentsOutput struct {
	CoreOutput
	Payments []models.Payment
}
