package graph

import (
	"context"

	"food-delivery-graphql/models"
	"food-delivery-graphql/policy"
	"food-delivery-graphql/services"
)

func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	user, err := guard(ctx, policy.Any)
	if err != nil {
		return nil, err
	}
	return &userResolver{user}, nil
}

func (r *Resolver) UserProfile(ctx context.Context, args struct{ UserID int32 }) (*userProfileOutput, error) {
	if _, err := guard(ctx, policy.Any); err != nil {
		return nil, err
	}
	out := r.users.FindByID(ctx, uint(args.UserID))
	res := &userProfileOutput{coreOutput: coreOutput{out.CoreOutput}}
	if out.User != nil {
		res.user = &userResolver{out.User}
	}
	return res, nil
}

func (r *Resolver) MyRestaurants(ctx context.Context) (*myRestaurantsOutput, error) {
	owner, err := guard(ctx, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	out := r.restaurants.MyRestaurants(ctx, owner)
	return &myRestaurantsOutput{coreOutput: coreOutput{out.CoreOutput}, restaurants: r.restaurantList(out.Restaurants)}, nil
}

func (r *Resolver) MyRestaurant(ctx context.Context, args struct{ Input struct{ ID int32 } }) (*restaurantOutput, error) {
	owner, err := guard(ctx, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	out := r.restaurants.MyRestaurant(ctx, owner, uint(args.Input.ID))
	return r.restaurantOutput(out.CoreOutput, out.Restaurant), nil
}

func (r *Resolver) AllCategories(ctx context.Context) *allCategoriesOutput {
	out := r.restaurants.AllCategories(ctx)
	list := make([]*categoryResolver, len(out.Categories))
	for i := range out.Categories {
		list[i] = &categoryResolver{c: out.Categories[i], restaurants: r.restaurants}
	}
	return &allCategoriesOutput{coreOutput: coreOutput{out.CoreOutput}, categories: &list}
}

type categoryInput struct {
	Slug string
	Page *int32
}

func (r *Resolver) Category(ctx context.Context, args struct{ Input categoryInput }) *categoryOutput {
	out := r.restaurants.FindCategoryBySlug(ctx, services.CategoryInput{Slug: args.Input.Slug, Page: page(args.Input.Page)})
	res := &categoryOutput{paged: newPaged(out.PaginationOutput)}
	if out.Category != nil {
		res.category = &categoryResolver{c: *out.Category, restaurants: r.restaurants}
		res.restaurants = r.restaurantList(out.Restaurants)
	}
	return res
}

func (r *Resolver) Restaurants(ctx context.Context, args struct{ Input struct{ Page *int32 } }) *restaurantsOutput {
	out := r.restaurants.AllRestaurants(ctx, page(args.Input.Page))
	return &restaurantsOutput{paged: newPaged(out.PaginationOutput), results: r.restaurantList(out.Results)}
}

func (r *Resolver) Restaurant(ctx context.Context, args struct{ Input struct{ RestaurantID int32 } }) *restaurantOutput {
	out := r.restaurants.FindRestaurantByID(ctx, uint(args.Input.RestaurantID))
	return r.restaurantOutput(out.CoreOutput, out.Restaurant)
}

type searchRestaurantInput struct {
	Query string
	Page  *int32
}

func (r *Resolver) SearchRestaurant(ctx context.Context, args struct{ Input searchRestaurantInput }) *searchRestaurantOutput {
	out := r.restaurants.SearchRestaurantByName(ctx, services.SearchRestaurantInput{
		Query: args.Input.Query,
		Page:  page(args.Input.Page),
	})
	return &searchRestaurantOutput{paged: newPaged(out.PaginationOutput), restaurants: r.restaurantList(out.Restaurants)}
}

func (r *Resolver) GetOrders(ctx context.Context, args struct{ Input struct{ Status *string } }) (*getOrdersOutput, error) {
	user, err := guard(ctx, policy.Any)
	if err != nil {
		return nil, err
	}
	var in services.GetOrdersInput
	if args.Input.Status != nil {
		s := models.OrderStatus(*args.Input.Status)
		in.Status = &s
	}
	out := r.orders.GetOrders(ctx, user, in)
	list := make([]*orderResolver, len(out.Orders))
	for i := range out.Orders {
		list[i] = &orderResolver{o: &out.Orders[i], root: r}
	}
	return &getOrdersOutput{coreOutput: coreOutput{out.CoreOutput}, orders: &list}, nil
}

func (r *Resolver) GetOrder(ctx context.Context, args struct{ Input struct{ ID int32 } }) (*getOrderOutput, error) {
	user, err := guard(ctx, policy.Any)
	if err != nil {
		return nil, err
	}
	out := r.orders.GetOrder(ctx, user, uint(args.Input.ID))
	res := &getOrderOutput{coreOutput: coreOutput{out.CoreOutput}}
	if out.Order != nil {
		res.order = &orderResolver{o: out.Order, root: r}
	}
	return res, nil
}

func (r *Resolver) GetPayments(ctx context.Context) (*getPaymentsOutput, error) {
	owner, err := guard(ctx, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	out := r.payments.GetPayments(ctx, owner)
	list := make([]*paymentResolver, len(out.Payments))
	for i := range out.Payments {
		list[i] = &paymentResolver{p: &out.Payments[i], root: r}
	}
	return &getPaymentsOutput{coreOutput: coreOutput{out.CoreOutput}, payments: &list}, nil
}

func (r *Resolver) restaurantOutput(core services.CoreOutput, restaurant *models.Restaurant) *restaurantOutput {
	res := &restaurantOutput{coreOutput: coreOutput{core}}
	if restaurant != nil {
		res.restaurant = &restaurantResolver{r: restaurant, root: r}
	}
	return res
}

func page(p *int32) int {
	if p == nil || *p < 1 {
		return 1
	}
	return int(*p)
}
