package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"food-delivery-graphql/middleware"
	"food-delivery-graphql/models"
	"food-delivery-graphql/policy"
	"food-delivery-graphql/pubsub"
	"food-delivery-graphql/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscription describes one client-facing topic
type subscription struct {
	topic string
	roles []models.UserRole
}

var subscriptions = map[string]subscription{
	"pendingOrders": {topic: pubsub.TopicNewPendingOrder, roles: []models.UserRole{models.RoleOwner}},
	"cookedOrders":  {topic: pubsub.TopicNewCookedOrder, roles: []models.UserRole{models.RoleDelivery}},
	"orderUpdates":  {topic: pubsub.TopicNewOrderUpdate, roles: []models.UserRole{policy.Any}},
}

// SubscriptionMessage is what each websocket frame carries
type SubscriptionMessage struct {
	Topic string              `json:"topic"`
	Data  services.OrderEvent `json:"data"`
}

// OrderGetter checks that a caller may follow one order
type OrderGetter interface {
	GetOrder(ctx context.Context, user *models.User, id uint) services.GetOrderOutput
}

// Subscriptions streams order events over a websocket.
// GET /subscriptions?topic=pendingOrders|cookedOrders|orderUpdates&orderId=N
func Subscriptions(sub pubsub.Subscriber, orders OrderGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		name := c.Query("topic")
		route, ok := subscriptions[name]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown topic"})
			return
		}
		if !policy.HasRole(user, route.roles...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden resource"})
			return
		}

		var orderID uint
		if name == "orderUpdates" {
			id, err := strconv.ParseUint(c.Query("orderId"), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
				return
			}
			out := orders.GetOrder(c.Request.Context(), user, uint(id))
			if !out.Ok {
				c.JSON(http.StatusForbidden, gin.H{"error": out.Error})
				return
			}
			orderID = uint(id)
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		events, err := sub.Subscribe(ctx, route.topic)
		if err != nil {
			log.Error().Err(err).Str("topic", route.topic).Msg("subscribe failed")
			return
		}

		// the read side only exists to notice the client going away
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		log.Debug().Uint("user_id", user.ID).Str("topic", name).Msg("subscription opened")
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-events:
				if !ok {
					return
				}
				var ev services.OrderEvent
				if err := pubsub.Decode(raw, &ev); err != nil {
					log.Warn().Err(err).Str("topic", route.topic).Msg("dropping undecodable event")
					continue
				}
				if !Deliverable(name, user, orderID, ev) {
					continue
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(SubscriptionMessage{Topic: name, Data: ev}); err != nil {
					return
				}
			}
		}
	}
}

// Deliverable decides whether ev on the named subscription reaches user
func Deliverable(name string, user *models.User, orderID uint, ev services.OrderEvent) bool {
	switch name {
	case "pendingOrders":
		return user.Role == models.RoleOwner && ev.OwnerID == user.ID
	case "cookedOrders":
		return user.Role == models.RoleDelivery
	case "orderUpdates":
		return ev.OrderID == orderID && policy.Can(user, eventOrder(ev), policy.ViewOrder)
	}
	return false
}

func eventOrder(ev services.OrderEvent) *models.Order {
	o := &models.Order{ID: ev.OrderID, Status: ev.Status, Total: ev.Total}
	if ev.CustomerID != 0 {
		o.CustomerID = &ev.CustomerID
	}
	if ev.DriverID != 0 {
		o.DriverID = &ev.DriverID
	}
	if ev.RestaurantID != 0 {
		o.RestaurantID = &ev.RestaurantID
		o.Restaurant = &models.Restaurant{ID: ev.RestaurantID, OwnerID: ev.OwnerID}
	}
	return o
}
