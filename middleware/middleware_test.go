package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-delivery-graphql/models"
	"food-delivery-graphql/policy"
	"food-delivery-graphql/services"
	"food-delivery-graphql/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers map[uint]*models.User

func (s stubUsers) FindByID(_ context.Context, id uint) services.UserProfileOutput {
	u, ok := s[id]
	if !ok {
		return services.UserProfileOutput{CoreOutput: services.CoreOutput{Error: "User Not Found"}}
	}
	return services.UserProfileOutput{CoreOutput: services.CoreOutput{Ok: true}, User: u}
}

func newRouter(tokens *token.Manager, users UserFinder, guard ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(tokens, users))
	handlers := append(guard, func(c *gin.Context) {
		u := CurrentUser(c)
		ctxUser := UserFromContext(c.Request.Context())
		if u == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		if ctxUser != u {
			c.String(http.StatusInternalServerError, "context mismatch")
			return
		}
		c.String(http.StatusOK, u.Email)
	})
	r.GET("/", handlers...)
	return r
}

func TestAuthenticate(t *testing.T) {
	tokens := token.NewManager("secret", 0)
	users := stubUsers{7: {ID: 7, Email: "owner@example.com", Role: models.RoleOwner}}
	r := newRouter(tokens, users)
	valid, err := tokens.Sign(7)
	require.NoError(t, err)
	orphan, err := tokens.Sign(99)
	require.NoError(t, err)

	tests := []struct {
		name  string
		setup func(req *http.Request)
		want  string
	}{
		{"no token", func(*http.Request) {}, "anonymous"},
		{"x-jwt header", func(req *http.Request) { req.Header.Set(TokenHeader, valid) }, "owner@example.com"},
		{"bearer header", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+valid) }, "owner@example.com"},
		{"query param", func(req *http.Request) { req.URL.RawQuery = "token=" + valid }, "owner@example.com"},
		{"garbage token", func(req *http.Request) { req.Header.Set(TokenHeader, "nope") }, "anonymous"},
		{"deleted user", func(req *http.Request) { req.Header.Set(TokenHeader, orphan) }, "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestRoleRequired(t *testing.T) {
	tokens := token.NewManager("secret", 0)
	users := stubUsers{
		1: {ID: 1, Email: "client@example.com", Role: models.RoleClient},
		2: {ID: 2, Email: "owner@example.com", Role: models.RoleOwner},
	}
	ownersOnly := newRouter(tokens, users, RoleRequired(models.RoleOwner))
	anyone := newRouter(tokens, users, RoleRequired(policy.Any))

	do := func(r *gin.Engine, id uint) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if id != 0 {
			tok, err := tokens.Sign(id)
			require.NoError(t, err)
			req.Header.Set(TokenHeader, tok)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, do(ownersOnly, 0))
	assert.Equal(t, http.StatusForbidden, do(ownersOnly, 1))
	assert.Equal(t, http.StatusOK, do(ownersOnly, 2))
	assert.Equal(t, http.StatusForbidden, do(anyone, 0))
	assert.Equal(t, http.StatusOK, do(anyone, 1))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewIPRateLimiter(0.0001, 2)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("https://app.example.com"))
	r.POST("/graphql", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
