package graph

import "food-delivery-graphql/services"

// coreOutput backs every {ok, error} object in the schema
type coreOutput struct{ core services.CoreOutput }

func (o *coreOutput) Ok() bool { return o.core.Ok }

func (o *coreOutput) Error() *string {
	if o.core.Error == "" {
		return nil
	}
	return &o.core.Error
}

func newCore(c services.CoreOutput) *coreOutput { return &coreOutput{core: c} }

type paged struct {
	coreOutput
	p services.PaginationOutput
}

func newPaged(p services.PaginationOutput) paged {
	return paged{coreOutput: coreOutput{core: p.CoreOutput}, p: p}
}

func (o *paged) TotalPages() *int32 {
	if !o.core.Ok {
		return nil
	}
	v := int32(o.p.TotalPages)
	return &v
}

func (o *paged) TotalResults() *int32 {
	if !o.core.Ok {
		return nil
	}
	v := int32(o.p.TotalResults)
	return &v
}

type loginOutput struct {
	coreOutput
	token string
}

func (o *loginOutput) Token() *string { return optString(o.token) }

type userProfileOutput struct {
	coreOutput
	user *userResolver
}

func (o *userProfileOutput) User() *userResolver { return o.user }

type createRestaurantOutput struct {
	coreOutput
	id uint
}

func (o *createRestaurantOutput) RestaurantID() *int32 { return idOrNil(o.id) }

type createDishOutput struct {
	coreOutput
	id uint
}

func (o *createDishOutput) DishID() *int32 { return idOrNil(o.id) }

type createOrderOutput struct {
	coreOutput
	id uint
}

func (o *createOrderOutput) OrderID() *int32 { return idOrNil(o.id) }

func idOrNil(id uint) *int32 {
	if id == 0 {
		return nil
	}
	v := int32(id)
	return &v
}

type myRestaurantsOutput struct {
	coreOutput
	restaurants *[]*restaurantResolver
}

func (o *myRestaurantsOutput) Restaurants() *[]*restaurantResolver { return o.restaurants }

type restaurantOutput struct {
	coreOutput
	restaurant *restaurantResolver
}

func (o *restaurantOutput) Restaurant() *restaurantResolver { return o.restaurant }

type allCategoriesOutput struct {
	coreOutput
	categories *[]*categoryResolver
}

func (o *allCategoriesOutput) Categories() *[]*categoryResolver { return o.categories }

type categoryOutput struct {
	paged
	category    *categoryResolver
	restaurants *[]*restaurantResolver
}

func (o *categoryOutput) Category() *categoryResolver         { return o.category }
func (o *categoryOutput) Restaurants() *[]*restaurantResolver { return o.restaurants }

type restaurantsOutput struct {
	paged
	results *[]*restaurantResolver
}

func (o *restaurantsOutput) Results() *[]*restaurantResolver { return o.results }

type searchRestaurantOutput struct {
	paged
	restaurants *[]*restaurantResolver
}

func (o *searchRestaurantOutput) Restaurants() *[]*restaurantResolver { return o.restaurants }

type getOrdersOutput struct {
	coreOutput
	orders *[]*orderResolver
}

func (o *getOrdersOutput) Orders() *[]*orderResolver { return o.orders }

type getOrderOutput struct {
	coreOutput
	order *orderResolver
}

func (o *getOrderOutput) Order() *orderResolver { return o.order }

type getPaymentsOutput struct {
	coreOutput
	payments *[]*paymentResolver
}

func (o *getPaymentsOutput) Payments() *[]*paymentResolver { return o.payments }
