package handlers

import (
	"context"
	"net/http"

	"food-delivery-graphql/models"
	"food-delivery-graphql/services"
	"food-delivery-graphql/statemachine"

	"github.com/gin-gonic/gin"
)

// Health reports liveness
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Food Delivery GraphQL API",
		"version": "1.0.0",
	})
}

func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":       "🍔 Welcome to the Food Delivery GraphQL API",
		"graphql":       "/graphql",
		"subscriptions": "/subscriptions",
		"docs":          "/api/state-machine",
		"health":        "/health",
		"roles":         []models.UserRole{models.RoleClient, models.RoleOwner, models.RoleDelivery},
	})
}

// GetStateMachineInfo returns the full state machine for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": []models.OrderStatus{models.StatusDelivered},
		"description":     "Food Delivery Order Lifecycle State Machine",
	})
}

// EmailVerifier consumes verification codes
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, code string) services.VerifyEmailOutput
}

// ConfirmEmail is the target of the link in the verification mail
func ConfirmEmail(users EmailVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "code is required"})
			return
		}
		out := users.VerifyEmail(c.Request.Context(), code)
		if !out.Ok {
			status := http.StatusInternalServerError
			if out.Error == "Verification not found." {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"ok": false, "error": out.Error})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
