package graph

import (
	"context"

	"food-delivery-graphql/models"
	"food-delivery-graphql/policy"
	"food-delivery-graphql/services"
)

type createAccountInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Role     string `validate:"oneof=Client Owner Delivery"`
}

func (r *Resolver) CreateAccount(ctx context.Context, args struct{ Input createAccountInput }) (*coreOutput, error) {
	if err := r.check(args.Input); err != nil {
		return nil, err
	}
	out := r.users.CreateAccount(ctx, services.CreateAccountInput{
		Email:    args.Input.Email,
		Password: args.Input.Password,
		Role:     models.UserRole(args.Input.Role),
	})
	return newCore(out.CoreOutput), nil
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (r *Resolver) Login(ctx context.Context, args struct{ Input loginInput }) (*loginOutput, error) {
	if err := r.check(args.Input); err != nil {
		return nil, err
	}
	out := r.users.Login(ctx, services.LoginInput{Email: args.Input.Email, Password: args.Input.Password})
	return &loginOutput{coreOutput: coreOutput{out.CoreOutput}, token: out.Token}, nil
}

type editProfileInput struct {
	Email    *string `validate:"omitempty,email"`
	Password *string `validate:"omitempty,min=1"`
}

func (r *Resolver) EditProfile(ctx context.Context, args struct{ Input editProfileInput }) (*coreOutput, error) {
	user, err := guard(ctx, policy.Any)
	if err != nil {
		return nil, err
	}
	if err := r.check(args.Input); err != nil {
		return nil, err
	}
	out := r.users.EditProfile(ctx, user.ID, services.EditProfileInput{
		Email:    args.Input.Email,
		Password: args.Input.Password,
	})
	return newCore(out.CoreOutput), nil
}

func (r *Resolver) VerifyEmail(ctx context.Context, args struct{ Input struct{ Code string } }) (*coreOutput, error) {
	return newCore(r.users.VerifyEmail(ctx, args.Input.Code).CoreOutput), nil
}

type createRestaurantInput struct {
	Name         string `validate:"required,min=5"`
	Address      string `validate:"required"`
	CoverImage   string
	CategoryName string `validate:"required"`
}

func (r *Resolver) CreateRestaurant(ctx context.Context, args struct{ Input createRestaurantInput }) (*createRestaurantOutput, error) {
	owner, err := guard(ctx, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	if err := r.check(args.Input); err != nil {
		return nil, err
	}
	out := r.restaurants.CreateRestaurant(ctx, owner, services.CreateRestaurantInput{
		Name:         args.Input.Name,
		Address:      args.Input.Address,
		CoverImage:   args.Input.CoverImage,
		CategoryName: args.Input.CategoryName,
	})
	return &createRestaurantOutput{coreOutput: coreOutput{out.CoreOutput}, id: out.RestaurantID}, nil
}

type editRestaurantInput struct {
	RestaurantID int32
	Name         *string `validate:"omitempty,min=5"`
	Address      *string
	CoverImage   *string
	CategoryName *string
}

func (r *Resolver) EditRestaurant(ctx context.Context, args struct{ Input editRestaurantInput }) (*coreOutput, error) {
	owner, err := guard(ctx, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	if err := r.check(args.Input); err != nil {
		return nil, err
	}
	in := args.Input
	out := r.restaurants.EditRestaurant(ctx, owner, services.EditRestaurantInput{
		RestaurantID: uint(in.RestaurantID),
		Name:         in.Name,
		Address:      in.Address,
		CoverImage:   in.CoverImage,
		CategoryName: in.CategoryName,
	})
	return newCore(out.CoreOutput), nil
}

func (r *Resolver) DeleteRestaurant(ctx context.Context, args struct{ Input struct{ RestaurantID int32 } }) (*coreOutput, error) {
	owner, err := guard(ctx, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	return newCore(r.restaurants.DeleteRestaurant(ctx, owner, uint(args.Input.RestaurantID)).CoreOutput), nil
}

type dishChoiceInput struct {
	Name  string `validate:"required"`
	Extra *int32
}

type dishOptionInput struct {
	Name    string             `validate:"required"`
	Choices *[]dishChoiceInput `validate:"omitempty,dive"`
	Extra   *int32
}

func toDishOptions(in *[]dishOptionInput) []models.DishOption {
	if in == nil {
		return nil
	}
	out := make([]models.DishOption, 0, len(*in))
	for _, o := range *in {
		opt := models.DishOption{Name: o.Name, Extra: fromInt32(o.Extra)}
		if o.Choices != nil {
			for _, c := range *o.Choices {
				opt.Choices = append(opt.Choices, models.DishChoice{Name: c.Name, Extra: fromInt32(c.Extra)})
			}
		}
		out = append(out, opt)
	}
	return out
}

func fromInt32(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

type createDishInput struct {
	RestaurantID int32
	Name         string `validate:"required,min=5"`
	Price        int32  `validate:"gte=0"`
	Photo        *string
	Description  string             `validate:"required,min=5,max=140"`
	Options      *[]dishOptionInput `validate:"omitempty,dive"`
}

func (r *Resolver) CreateDish(ctx context.Context, args struct{ Input createDishInput }) (*createDishOutput, error) {
	owner, err := guard(ctx, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	if err := r.check(args.Input); err != nil {
		return nil, err
	}
	in := args.Input
	photo := ""
	if in.Photo != nil {
		photo = *in.Photo
	}
	out := r.restaurants.CreateDish(ctx, owner, services.CreateDishInput{
		RestaurantID: uint(in.RestaurantID),
		Name:         in.Name,
		Price:        int(in.Price),
		Photo:        photo,
		Description:  in.Description,
		Options:      toDishOptions(in.Options),
	})
	return &createDishOutput{coreOutput: coreOutput{out.CoreOutput}, id: out.DishID}, nil
}

type editDishInput struct {
	DishID      int32
	Name        *string `validate:"omitempty,min=5"`
	Price       *int32  `validate:"omitempty,gte=0"`
	Photo       *string
	Description *string            `validate:"omitempty,min=5,max=140"`
	Options     *[]dishOptionInput `validate:"omitempty,dive"`
}

func (r *Resolver) EditDish(ctx context.Context, args struct{ Input editDishInput }) (*coreOutput, error) {
	owner, err := guard(ctx, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	if err := r.check(args.Input); err != nil {
		return nil, err
	}
	in := args.Input
	edit := services.EditDishInput{
		DishID:      uint(in.DishID),
		Name:        in.Name,
		Price:       fromInt32(in.Price),
		Photo:       in.Photo,
		Description: in.Description,
	}
	if in.Options != nil {
		opts := toDishOptions(in.Options)
		edit.Options = &opts
	}
	return newCore(r.restaurants.EditDish(ctx, owner, edit).CoreOutput), nil
}

func (r *Resolver) DeleteDish(ctx context.Context, args struct{ Input struct{ DishID int32 } }) (*coreOutput, error) {
	owner, err := guard(ctx, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	return newCore(r.restaurants.DeleteDish(ctx, owner, uint(args.Input.DishID)).CoreOutput), nil
}

type orderItemOptionInput struct {
	Name   string `validate:"required"`
	Choice *string
}

type createOrderItemInput struct {
	DishID  int32
	Options *[]orderItemOptionInput `validate:"omitempty,dive"`
}

type createOrderInput struct {
	RestaurantID int32
	Items        []createOrderItemInput `validate:"min=1,dive"`
}

func (r *Resolver) CreateOrder(ctx context.Context, args struct{ Input createOrderInput }) (*createOrderOutput, error) {
	customer, err := guard(ctx, models.RoleClient)
	if err != nil {
		return nil, err
	}
	if err := r.check(args.Input); err != nil {
		return nil, err
	}
	in := services.CreateOrderInput{RestaurantID: uint(args.Input.RestaurantID)}
	for _, item := range args.Input.Items {
		it := services.CreateOrderItemInput{DishID: uint(item.DishID)}
		if item.Options != nil {
			for _, o := range *item.Options {
				it.Options = append(it.Options, models.OrderItemOption{Name: o.Name, Choice: o.Choice})
			}
		}
		in.Items = append(in.Items, it)
	}
	out := r.orders.CreateOrder(ctx, customer, in)
	return &createOrderOutput{coreOutput: coreOutput{out.CoreOutput}, id: out.OrderID}, nil
}

type editOrderInput struct {
	ID     int32
	Status string
}

func (r *Resolver) EditOrder(ctx context.Context, args struct{ Input editOrderInput }) (*coreOutput, error) {
	user, err := guard(ctx, policy.Any)
	if err != nil {
		return nil, err
	}
	out := r.orders.EditOrderStatus(ctx, user, services.EditOrderInput{
		ID:     uint(args.Input.ID),
		Status: models.OrderStatus(args.Input.Status),
	})
	return newCore(out.CoreOutput), nil
}

func (r *Resolver) TakeOrder(ctx context.Context, args struct{ Input struct{ ID int32 } }) (*coreOutput, error) {
	driver, err := guard(ctx, models.RoleDelivery)
	if err != nil {
		return nil, err
	}
	return newCore(r.orders.TakeOrder(ctx, driver, uint(args.Input.ID)).CoreOutput), nil
}

type createPaymentInput struct {
	TransactionID string `validate:"required"`
	RestaurantID  int32
}

func (r *Resolver) CreatePayment(ctx context.Context, args struct{ Input createPaymentInput }) (*coreOutput, error) {
	owner, err := guard(ctx, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	if err := r.check(args.Input); err != nil {
		return nil, err
	}
	out := r.payments.CreatePayment(ctx, owner, services.CreatePaymentInput{
		TransactionID: args.Input.TransactionID,
		RestaurantID:  uint(args.Input.RestaurantID),
	})
	return newCore(out.CoreOutput), nil
}
