package routes

import (
	"food-delivery-graphql/handlers"
	"food-delivery-graphql/middleware"
	"food-delivery-graphql/policy"
	"food-delivery-graphql/pubsub"
	"food-delivery-graphql/services"
	"food-delivery-graphql/token"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
)

// Deps is everything the HTTP layer needs from the rest of the app
type Deps struct {
	Schema      *graphql.Schema
	Tokens      *token.Manager
	Users       *services.UserService
	Orders      *services.OrderService
	Subscriber  pubsub.Subscriber
	Limiter     *middleware.IPRateLimiter
	CORSOrigins string
}

// NewRouter builds the engine with global middleware and every route
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery(), middleware.CORS(d.CORSOrigins))
	SetupRoutes(r, d)
	return r
}

func SetupRoutes(r *gin.Engine, d Deps) {
	// ── Public routes ──────────────────────────────────────────────
	r.GET("/health", handlers.Health)
	r.GET("/", handlers.Welcome)
	r.GET("/confirm", handlers.ConfirmEmail(d.Users))

	public := r.Group("/api")
	{
		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── GraphQL; resolvers apply their own role guards ─────────────
	api := r.Group("/")
	api.Use(middleware.Authenticate(d.Tokens, d.Users))
	{
		gql := []gin.HandlerFunc{handlers.GraphQL(d.Schema)}
		if d.Limiter != nil {
			gql = append([]gin.HandlerFunc{middleware.RateLimit(d.Limiter)}, gql...)
		}
		api.POST("/graphql", gql...)

		// ── Live order events over websocket ───────────────────────
		api.GET("/subscriptions", middleware.RoleRequired(policy.Any), handlers.Subscriptions(d.Subscriber, d.Orders))
	}
}
