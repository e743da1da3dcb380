// Package policy holds every role and ownership decision in one place so
// resolvers, services and the subscription endpoint cannot drift apart.
package policy

import "food-delivery-graphql/models"

type Action string

const (
	ViewOrder         Action = "order:view"
	EditOrder         Action = "order:edit"
	TakeOrder         Action = "order:take"
	ManageRestaurant  Action = "restaurant:manage"
	ManageDish        Action = "dish:manage"
	PromoteRestaurant Action = "restaurant:promote"
)

// Any is the guard value meaning "any authenticated user"
const Any models.UserRole = "Any"

// HasRole reports whether actor is logged in and holds one of roles.
// With no roles, or with Any, every authenticated user passes.
func HasRole(actor *models.User, roles ...models.UserRole) bool {
	if actor == nil {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == Any || r == actor.Role {
			return true
		}
	}
	return false
}

// Can is the single authorization check for (actor, resource, action).
// Unknown resource/action pairs are denied.
func Can(actor *models.User, resource any, action Action) bool {
	if actor == nil {
		return false
	}
	switch res := resource.(type) {
	case *models.Order:
		return canOnOrder(actor, res, action)
	case *models.Restaurant:
		return canOnRestaurant(actor, res, action)
	case *models.Dish:
		if action != ManageDish || res.Restaurant == nil {
			return false
		}
		return actor.Role == models.RoleOwner && res.Restaurant.OwnerID == actor.ID
	}
	return false
}

func canOnOrder(actor *models.User, o *models.Order, action Action) bool {
	switch action {
	case ViewOrder, EditOrder:
		allowed := false
		switch actor.Role {
		case models.RoleClient:
			allowed = o.CustomerID != nil && *o.CustomerID == actor.ID
		case models.RoleDelivery:
			allowed = o.DriverID != nil && *o.DriverID == actor.ID
		case models.RoleOwner:
			allowed = o.OwnerID() == actor.ID
		}
		if action == EditOrder && actor.Role == models.RoleClient {
			return false
		}
		return allowed
	case TakeOrder:
		return actor.Role == models.RoleDelivery
	}
	return false
}

func canOnRestaurant(actor *models.User, r *models.Restaurant, action Action) bool {
	switch action {
	case ManageRestaurant, PromoteRestaurant:
		return actor.Role == models.RoleOwner && r.OwnerID == actor.ID
	}
	return false
}
