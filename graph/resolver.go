// Package graph exposes the services as a GraphQL API.
package graph

import (
	"context"
	_ "embed"
	"errors"

	"food-delivery-graphql/middleware"
	"food-delivery-graphql/models"
	"food-delivery-graphql/policy"
	"food-delivery-graphql/services"

	"github.com/go-playground/validator/v10"
	graphql "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

// ErrForbidden is returned when the caller lacks the role an operation needs
var ErrForbidden = errors.New("Forbidden resource")

// Resolver is the root resolver for both Query and Mutation
type Resolver struct {
	users       *services.UserService
	restaurants *services.RestaurantService
	orders      *services.OrderService
	payments    *services.PaymentService
	validate    *validator.Validate
}

func NewResolver(users *services.UserService, restaurants *services.RestaurantService, orders *services.OrderService, payments *services.PaymentService) *Resolver {
	return &Resolver{
		users:       users,
		restaurants: restaurants,
		orders:      orders,
		payments:    payments,
		validate:    validator.New(),
	}
}

// NewSchema parses the embedded SDL against r; it panics on a mismatch
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, r)
}

// guard returns the caller when they hold one of roles
func guard(ctx context.Context, roles ...models.UserRole) (*models.User, error) {
	u := middleware.UserFromContext(ctx)
	if !policy.HasRole(u, roles...) {
		return nil, ErrForbidden
	}
	return u, nil
}

func (r *Resolver) check(input any) error {
	return r.validate.Struct(input)
}
