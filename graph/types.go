package graph

import (
	"context"

	"food-delivery-graphql/models"
	"food-delivery-graphql/services"

	graphql "github.com/graph-gophers/graphql-go"
)

// The resolvers below map persisted models onto the API schema explicitly;
// nothing in models knows about GraphQL.

func id32(id uint) int32 { return int32(id) }

func optID(id *uint) *int32 {
	if id == nil {
		return nil
	}
	v := int32(*id)
	return &v
}

func optInt(v *int) *int32 {
	if v == nil {
		return nil
	}
	i := int32(*v)
	return &i
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type userResolver struct{ u *models.User }

func (r *userResolver) ID() int32               { return id32(r.u.ID) }
func (r *userResolver) Email() string           { return r.u.Email }
func (r *userResolver) Role() string            { return string(r.u.Role) }
func (r *userResolver) Verified() bool          { return r.u.Verified }
func (r *userResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.u.CreatedAt} }
func (r *userResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: r.u.UpdatedAt} }

func (r *userResolver) LastLogin() *graphql.Time {
	if r.u.LastLogin == nil {
		return nil
	}
	return &graphql.Time{Time: *r.u.LastLogin}
}

type categoryResolver struct {
	c           models.Category
	restaurants *services.RestaurantService
}

func (r *categoryResolver) ID() int32           { return id32(r.c.ID) }
func (r *categoryResolver) Name() string        { return r.c.Name }
func (r *categoryResolver) Slug() string        { return r.c.Slug }
func (r *categoryResolver) CoverImage() *string { return optString(r.c.CoverImage) }

func (r *categoryResolver) RestaurantCount(ctx context.Context) (int32, error) {
	n, err := r.restaurants.CountRestaurants(ctx, r.c.ID)
	return int32(n), err
}

type restaurantResolver struct {
	r    *models.Restaurant
	root *Resolver
}

func (r *restaurantResolver) ID() int32          { return id32(r.r.ID) }
func (r *restaurantResolver) Name() string       { return r.r.Name }
func (r *restaurantResolver) CoverImage() string { return r.r.CoverImage }
func (r *restaurantResolver) Address() string    { return r.r.Address }
func (r *restaurantResolver) IsPromoted() bool   { return r.r.IsPromoted }
func (r *restaurantResolver) OwnerID() int32     { return id32(r.r.OwnerID) }

func (r *restaurantResolver) PromotedUntil() *graphql.Time {
	if r.r.PromotedUntil == nil {
		return nil
	}
	return &graphql.Time{Time: *r.r.PromotedUntil}
}

func (r *restaurantResolver) Category() *categoryResolver {
	if r.r.Category == nil {
		return nil
	}
	return &categoryResolver{c: *r.r.Category, restaurants: r.root.restaurants}
}

func (r *restaurantResolver) Menu() []*dishResolver {
	out := make([]*dishResolver, len(r.r.Menu))
	for i := range r.r.Menu {
		out[i] = &dishResolver{&r.r.Menu[i]}
	}
	return out
}

func (r *restaurantResolver) Orders() []*orderResolver {
	out := make([]*orderResolver, len(r.r.Orders))
	for i := range r.r.Orders {
		out[i] = &orderResolver{o: &r.r.Orders[i], root: r.root}
	}
	return out
}

func (r *Resolver) restaurantList(list []models.Restaurant) *[]*restaurantResolver {
	out := make([]*restaurantResolver, len(list))
	for i := range list {
		out[i] = &restaurantResolver{r: &list[i], root: r}
	}
	return &out
}

type dishResolver struct{ d *models.Dish }

func (r *dishResolver) ID() int32           { return id32(r.d.ID) }
func (r *dishResolver) Name() string        { return r.d.Name }
func (r *dishResolver) Price() int32        { return int32(r.d.Price) }
func (r *dishResolver) Photo() *string      { return optString(r.d.Photo) }
func (r *dishResolver) Description() string { return r.d.Description }
func (r *dishResolver) RestaurantID() int32 { return id32(r.d.RestaurantID) }

func (r *dishResolver) Options() *[]*dishOptionResolver {
	opts := r.d.Options.Data()
	out := make([]*dishOptionResolver, len(opts))
	for i := range opts {
		out[i] = &dishOptionResolver{opts[i]}
	}
	return &out
}

type dishOptionResolver struct{ o models.DishOption }

func (r *dishOptionResolver) Name() string  { return r.o.Name }
func (r *dishOptionResolver) Extra() *int32 { return optInt(r.o.Extra) }

func (r *dishOptionResolver) Choices() *[]*dishChoiceResolver {
	if r.o.Choices == nil {
		return nil
	}
	out := make([]*dishChoiceResolver, len(r.o.Choices))
	for i := range r.o.Choices {
		out[i] = &dishChoiceResolver{r.o.Choices[i]}
	}
	return &out
}

type dishChoiceResolver struct{ c models.DishChoice }

func (r *dishChoiceResolver) Name() string  { return r.c.Name }
func (r *dishChoiceResolver) Extra() *int32 { return optInt(r.c.Extra) }

type orderResolver struct {
	o    *models.Order
	root *Resolver
}

func (r *orderResolver) ID() int32            { return id32(r.o.ID) }
func (r *orderResolver) CustomerID() *int32   { return optID(r.o.CustomerID) }
func (r *orderResolver) DriverID() *int32     { return optID(r.o.DriverID) }
func (r *orderResolver) RestaurantID() *int32 { return optID(r.o.RestaurantID) }
func (r *orderResolver) Total() int32         { return int32(r.o.Total) }
func (r *orderResolver) Status() string       { return string(r.o.Status) }
func (r *orderResolver) CreatedAt() graphql.Time {
	return graphql.Time{Time: r.o.CreatedAt}
}

func (r *orderResolver) Restaurant() *restaurantResolver {
	if r.o.Restaurant == nil {
		return nil
	}
	return &restaurantResolver{r: r.o.Restaurant, root: r.root}
}

func (r *orderResolver) Items() []*orderItemResolver {
	out := make([]*orderItemResolver, len(r.o.Items))
	for i := range r.o.Items {
		out[i] = &orderItemResolver{&r.o.Items[i]}
	}
	return out
}

type orderItemResolver struct{ i *models.OrderItem }

func (r *orderItemResolver) ID() int32     { return id32(r.i.ID) }
func (r *orderItemResolver) DishID() int32 { return id32(r.i.DishID) }

func (r *orderItemResolver) Options() []*orderItemOptionResolver {
	opts := r.i.Options.Data()
	out := make([]*orderItemOptionResolver, len(opts))
	for i := range opts {
		out[i] = &orderItemOptionResolver{opts[i]}
	}
	return out
}

type orderItemOptionResolver struct{ o models.OrderItemOption }

func (r *orderItemOptionResolver) Name() string    { return r.o.Name }
func (r *orderItemOptionResolver) Choice() *string { return r.o.Choice }

type paymentResolver struct {
	p    *models.Payment
	root *Resolver
}

func (r *paymentResolver) ID() int32             { return id32(r.p.ID) }
func (r *paymentResolver) TransactionID() string { return r.p.TransactionID }
func (r *paymentResolver) RestaurantID() int32   { return id32(r.p.RestaurantID) }
func (r *paymentResolver) CreatedAt() graphql.Time {
	return graphql.Time{Time: r.p.CreatedAt}
}

func (r *paymentResolver) Restaurant() *restaurantResolver {
	if r.p.Restaurant.ID == 0 {
		return nil
	}
	return &restaurantResolver{r: &r.p.Restaurant, root: r.root}
}
