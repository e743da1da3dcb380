package services

import (
	"context"
	"errors"

	"food-delivery-graphql/models"
	"food-delivery-graphql/policy"
	"food-delivery-graphql/pubsub"
	"food-delivery-graphql/statemachine"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderService struct {
	db        *gorm.DB
	publisher pubsub.Publisher
}

func NewOrderService(db *gorm.DB, publisher pubsub.Publisher) *OrderService {
	return &OrderService{db: db, publisher: publisher}
}

// CreateOrder prices each item from the dish catalog and stores the order
// with its items. Owners of the restaurant are notified of the new order.
func (s *OrderService) CreateOrder(ctx context.Context, customer *models.User, in CreateOrderInput) CreateOrderOutput {
	const generic = "Could not create order."

	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).First(&restaurant, in.RestaurantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CreateOrderOutput{CoreOutput: fail("Restaurant not found")}
	}
	if err != nil {
		log.Error().Err(err).Str("op", "createOrder").Msg("restaurant lookup failed")
		return CreateOrderOutput{CoreOutput: fail(generic)}
	}

	total := 0
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		var dish models.Dish
		err := s.db.WithContext(ctx).
			Where("id = ? AND restaurant_id = ?", item.DishID, restaurant.ID).
			First(&dish).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CreateOrderOutput{CoreOutput: fail("Dish not found.")}
		}
		if err != nil {
			log.Error().Err(err).Str("op", "createOrder").Msg("dish lookup failed")
			return CreateOrderOutput{CoreOutput: fail(generic)}
		}

		total += ItemPrice(&dish, item.Options)
		items = append(items, models.OrderItem{
			DishID:  dish.ID,
			Options: datatypes.NewJSONType(item.Options),
		})
	}

	order := models.Order{
		CustomerID:   &customer.ID,
		RestaurantID: &restaurant.ID,
		Total:        total,
		Status:       models.StatusPending,
		Items:        items,
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		log.Error().Err(err).Str("op", "createOrder").Uint("customer_id", customer.ID).Msg("could not persist order")
		return CreateOrderOutput{CoreOutput: fail(generic)}
	}

	order.Restaurant = &restaurant
	s.publish(ctx, pubsub.TopicNewPendingOrder, &order)
	return CreateOrderOutput{CoreOutput: ok(), OrderID: order.ID}
}

// ItemPrice is the dish base price plus the extras of every chosen option
func ItemPrice(dish *models.Dish, chosen []models.OrderItemOption) int {
	price := dish.Price
	for _, opt := range chosen {
		price += dish.OptionExtra(opt.Name, opt.Choice)
	}
	return price
}

// GetOrders lists the caller's orders: as customer, as driver, or across
// every restaurant they own.
func (s *OrderService) GetOrders(ctx context.Context, user *models.User, in GetOrdersInput) GetOrdersOutput {
	q := s.db.WithContext(ctx).Preload("Restaurant").Preload("Items")
	switch user.Role {
	case models.RoleClient:
		q = q.Where("customer_id = ?", user.ID)
	case models.RoleDelivery:
		q = q.Where("driver_id = ?", user.ID)
	case models.RoleOwner:
		owned := s.db.WithContext(ctx).Model(&models.Restaurant{}).Select("id").Where("owner_id = ?", user.ID)
		q = q.Where("restaurant_id IN (?)", owned)
	default:
		return GetOrdersOutput{CoreOutput: ok(), Orders: []models.Order{}}
	}
	if in.Status != nil {
		q = q.Where("status = ?", *in.Status)
	}

	var orders []models.Order
	if err := q.Order("id DESC").Find(&orders).Error; err != nil {
		log.Error().Err(err).Str("op", "getOrders").Uint("user_id", user.ID).Msg("query failed")
		return GetOrdersOutput{CoreOutput: fail("Could not get orders")}
	}
	return GetOrdersOutput{CoreOutput: ok(), Orders: orders}
}

func (s *OrderService) GetOrder(ctx context.Context, user *models.User, id uint) GetOrderOutput {
	order, err := s.load(ctx, id, "Items")
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return GetOrderOutput{CoreOutput: fail("Order not found.")}
	}
	if err != nil {
		log.Error().Err(err).Str("op", "getOrder").Uint("order_id", id).Msg("query failed")
		return GetOrderOutput{CoreOutput: fail("Could not load order.")}
	}
	if !policy.Can(user, order, policy.ViewOrder) {
		return GetOrderOutput{CoreOutput: fail("You cant see that")}
	}
	return GetOrderOutput{CoreOutput: ok(), Order: order}
}

// EditOrderStatus moves an order one step along the status machine
func (s *OrderService) EditOrderStatus(ctx context.Context, user *models.User, in EditOrderInput) EditOrderOutput {
	order, err := s.load(ctx, in.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return EditOrderOutput{fail("Order not found.")}
	}
	if err != nil {
		log.Error().Err(err).Str("op", "editOrder").Uint("order_id", in.ID).Msg("query failed")
		return EditOrderOutput{fail("Could not edit order.")}
	}
	if !policy.Can(user, order, policy.ViewOrder) {
		return EditOrderOutput{fail("Can't do that.")}
	}
	if !policy.Can(user, order, policy.EditOrder) {
		return EditOrderOutput{fail("You can't do that.")}
	}
	if err := statemachine.CanTransition(order.Status, in.Status, user.Role); err != nil {
		log.Debug().Err(err).Uint("order_id", order.ID).Msg("status change rejected")
		return EditOrderOutput{fail("You can't do that.")}
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", in.Status).Error; err != nil {
		log.Error().Err(err).Str("op", "editOrder").Uint("order_id", order.ID).Msg("could not save status")
		return EditOrderOutput{fail("Could not edit order.")}
	}
	order.Status = in.Status

	if user.Role == models.RoleOwner && in.Status == models.StatusCooked {
		s.publish(ctx, pubsub.TopicNewCookedOrder, order)
	}
	s.publish(ctx, pubsub.TopicNewOrderUpdate, order)
	return EditOrderOutput{ok()}
}

// TakeOrder assigns the calling driver to an order without one
func (s *OrderService) TakeOrder(ctx context.Context, driver *models.User, id uint) TakeOrderOutput {
	const generic = "Could not update order."

	order, err := s.load(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TakeOrderOutput{fail("Order not found")}
	}
	if err != nil {
		log.Error().Err(err).Str("op", "takeOrder").Uint("order_id", id).Msg("query failed")
		return TakeOrderOutput{fail(generic)}
	}
	if order.DriverID != nil {
		return TakeOrderOutput{fail("This order already has a driver")}
	}
	if !policy.Can(driver, order, policy.TakeOrder) {
		return TakeOrderOutput{fail("You can't do that.")}
	}

	// Conditional on driver_id so two drivers racing for one order cannot both win.
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND driver_id IS NULL", order.ID).
		Update("driver_id", driver.ID)
	if res.Error != nil {
		log.Error().Err(res.Error).Str("op", "takeOrder").Uint("order_id", order.ID).Msg("could not assign driver")
		return TakeOrderOutput{fail(generic)}
	}
	if res.RowsAffected == 0 {
		return TakeOrderOutput{fail("This order already has a driver")}
	}
	order.DriverID = &driver.ID

	s.publish(ctx, pubsub.TopicNewOrderUpdate, order)
	return TakeOrderOutput{ok()}
}

func (s *OrderService) load(ctx context.Context, id uint, preloads ...string) (*models.Order, error) {
	q := s.db.WithContext(ctx).Preload("Restaurant")
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var order models.Order
	if err := q.First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) publish(ctx context.Context, topic string, order *models.Order) {
	if err := s.publisher.Publish(ctx, topic, eventFor(order)); err != nil {
		log.Warn().Err(err).Str("topic", topic).Uint("order_id", order.ID).Msg("could not publish order event")
	}
}
