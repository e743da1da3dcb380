package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"food-delivery-graphql/config"
	"food-delivery-graphql/graph"
	"food-delivery-graphql/handlers"
	"food-delivery-graphql/mail"
	"food-delivery-graphql/middleware"
	"food-delivery-graphql/models"
	"food-delivery-graphql/pubsub"
	"food-delivery-graphql/services"
	"food-delivery-graphql/token"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type app struct {
	db     *gorm.DB
	tokens *token.Manager
	broker *pubsub.MemoryBroker
	users  *services.UserService
	orders *services.OrderService
	router *gin.Engine
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.InitDB(&config.Config{
		DBDriver: "sqlite",
		DBSource: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "disabled",
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	a := &app{db: db, tokens: token.NewManager("test", time.Hour), broker: pubsub.NewMemoryBroker(8)}
	a.users = services.NewUserService(db, a.tokens, mail.LogMailer{})
	a.orders = services.NewOrderService(db, a.broker)
	schema := graph.NewSchema(graph.NewResolver(a.users, services.NewRestaurantService(db), a.orders, services.NewPaymentService(db)))

	r := gin.New()
	r.GET("/health", handlers.Health)
	r.GET("/api/state-machine", handlers.GetStateMachineInfo)
	r.GET("/confirm", handlers.ConfirmEmail(a.users))
	authed := r.Group("/", middleware.Authenticate(a.tokens, a.users))
	authed.POST("/graphql", handlers.GraphQL(schema))
	authed.GET("/subscriptions", middleware.RoleRequired(), handlers.Subscriptions(a.broker, a.orders))
	a.router = r
	return a
}

func (a *app) user(t *testing.T, email string, role models.UserRole) (*models.User, string) {
	t.Helper()
	u := &models.User{Email: email, Role: role}
	u.SetPassword("secret")
	require.NoError(t, a.db.Create(u).Error)
	tok, err := a.tokens.Sign(u.ID)
	require.NoError(t, err)
	return u, tok
}

func TestHealthAndStateMachine(t *testing.T) {
	a := newApp(t)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/state-machine", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		StateMachine []struct{ From, To, Actor string } `json:"state_machine"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.StateMachine, 4)
}

func TestGraphQLEndpointUsesHeaderToken(t *testing.T) {
	a := newApp(t)
	_, tok := a.user(t, "owner@example.com", models.RoleOwner)

	post := func(token string) map[string]any {
		payload, _ := json.Marshal(map[string]any{"query": "{ me { email role } }"})
		req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set(middleware.TokenHeader, token)
		}
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	anon := post("")
	errs, _ := anon["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "Forbidden resource", errs[0].(map[string]any)["message"])

	authed := post(tok)
	assert.Nil(t, authed["errors"])
	me := authed["data"].(map[string]any)["me"].(map[string]any)
	assert.Equal(t, "owner@example.com", me["email"])
	assert.Equal(t, "Owner", me["role"])
}

func TestGraphQLRejectsMissingQuery(t *testing.T) {
	a := newApp(t)
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmEmail(t *testing.T) {
	a := newApp(t)
	u, _ := a.user(t, "dev@example.com", models.RoleClient)
	v := models.Verification{UserID: u.ID}
	require.NoError(t, a.db.Omit("User").Create(&v).Error)

	get := func(code string) int {
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/confirm?code="+code, nil))
		return w.Code
	}
	assert.Equal(t, http.StatusBadRequest, get(""))
	assert.Equal(t, http.StatusOK, get(v.Code))
	assert.Equal(t, http.StatusNotFound, get(v.Code))
}

func dial(t *testing.T, srv *httptest.Server, query, tok string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/subscriptions?" + query
	header := http.Header{}
	if tok != "" {
		header.Set(middleware.TokenHeader, tok)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func TestSubscriptionPendingOrders(t *testing.T) {
	a := newApp(t)
	owner, ownerTok := a.user(t, "owner@example.com", models.RoleOwner)
	client, clientTok := a.user(t, "client@example.com", models.RoleClient)
	restaurant := &models.Restaurant{Name: "Wok This Way", Address: "x", OwnerID: owner.ID}
	require.NoError(t, a.db.Omit("Owner").Create(restaurant).Error)
	dish := &models.Dish{Name: "Fried Rice", Price: 8, RestaurantID: restaurant.ID}
	require.NoError(t, a.db.Create(dish).Error)

	srv := httptest.NewServer(a.router)
	defer srv.Close()

	_, resp, err := dial(t, srv, "topic=pendingOrders", clientTok)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = dial(t, srv, "topic=pendingOrders", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dial(t, srv, "topic=pendingOrders", ownerTok)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return a.broker.Subscribers(pubsub.TopicNewPendingOrder) == 1 },
		time.Second, 5*time.Millisecond)

	out := a.orders.CreateOrder(context.Background(), client, services.CreateOrderInput{
		RestaurantID: restaurant.ID,
		Items:        []services.CreateOrderItemInput{{DishID: dish.ID}},
	})
	require.True(t, out.Ok, out.Error)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg handlers.SubscriptionMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "pendingOrders", msg.Topic)
	assert.Equal(t, out.OrderID, msg.Data.OrderID)
	assert.Equal(t, 8, msg.Data.Total)
}

func TestSubscriptionOrderUpdatesRequiresAccess(t *testing.T) {
	a := newApp(t)
	owner, _ := a.user(t, "owner@example.com", models.RoleOwner)
	client, clientTok := a.user(t, "client@example.com", models.RoleClient)
	_, strangerTok := a.user(t, "stranger@example.com", models.RoleClient)
	restaurant := &models.Restaurant{Name: "Bagel Bros", Address: "x", OwnerID: owner.ID}
	require.NoError(t, a.db.Omit("Owner").Create(restaurant).Error)
	order := &models.Order{CustomerID: &client.ID, RestaurantID: &restaurant.ID, Status: models.StatusPending}
	require.NoError(t, a.db.Create(order).Error)

	srv := httptest.NewServer(a.router)
	defer srv.Close()

	_, resp, err := dial(t, srv, "topic=orderUpdates", clientTok)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	query := "topic=orderUpdates&orderId=" + jsonNumber(order.ID)
	_, resp, err = dial(t, srv, query, strangerTok)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dial(t, srv, query, clientTok)
	require.NoError(t, err)
	conn.Close()
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestDeliverable(t *testing.T) {
	owner := &models.User{ID: 1, Role: models.RoleOwner}
	driver := &models.User{ID: 2, Role: models.RoleDelivery}
	client := &models.User{ID: 3, Role: models.RoleClient}
	ev := services.OrderEvent{OrderID: 10, RestaurantID: 5, OwnerID: 1, CustomerID: 3}

	assert.True(t, handlers.Deliverable("pendingOrders", owner, 0, ev))
	assert.False(t, handlers.Deliverable("pendingOrders", &models.User{ID: 9, Role: models.RoleOwner}, 0, ev))
	assert.True(t, handlers.Deliverable("cookedOrders", driver, 0, ev))
	assert.False(t, handlers.Deliverable("cookedOrders", client, 0, ev))

	assert.True(t, handlers.Deliverable("orderUpdates", client, 10, ev))
	assert.True(t, handlers.Deliverable("orderUpdates", owner, 10, ev))
	assert.False(t, handlers.Deliverable("orderUpdates", client, 11, ev), "other order")
	assert.False(t, handlers.Deliverable("orderUpdates", driver, 10, ev), "driver not assigned")

	ev.DriverID = 2
	assert.True(t, handlers.Deliverable("orderUpdates", driver, 10, ev))
}
