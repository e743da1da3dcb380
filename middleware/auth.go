package middleware

import (
	"context"
	"net/http"
	"strings"

	"food-delivery-graphql/models"
	"food-delivery-graphql/policy"
	"food-delivery-graphql/services"
	"food-delivery-graphql/token"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// TokenHeader is the custom header carrying the session token
const TokenHeader = "x-jwt"

const userKey = "user"

type ctxKey struct{}

// UserFinder loads the user a token was issued for
type UserFinder interface {
	FindByID(ctx context.Context, id uint) services.UserProfileOutput
}

// WithUser returns a copy of ctx carrying the acting user
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the acting user, or nil for anonymous requests
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxKey{}).(*models.User)
	return u
}

// Authenticate resolves the token (x-jwt header, Bearer header, or ?token=)
// to a user and attaches it to both the gin and request contexts.
// Requests without a valid token continue anonymously.
func Authenticate(tokens *token.Manager, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			c.Next()
			return
		}
		id, err := tokens.Verify(raw)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejected token")
			c.Next()
			return
		}
		out := users.FindByID(c.Request.Context(), id)
		if !out.Ok {
			c.Next()
			return
		}
		c.Set(userKey, out.User)
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), out.User))
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if v := c.GetHeader(TokenHeader); v != "" {
		return v
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Query("token")
}

// RoleRequired aborts unless Authenticate found a user holding one of roles.
// policy.Any admits every authenticated user.
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy.HasRole(CurrentUser(c), roles...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser extracts the caller from the gin context
func CurrentUser(c *gin.Context) *models.User {
	val, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := val.(*models.User)
	return u
}
