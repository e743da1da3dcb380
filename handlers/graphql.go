package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
)

type GraphQLRequest struct {
	Query         string         `json:"query" binding:"required"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// GraphQL executes one query or mutation against schema. The acting user,
// if any, is already on the request context.
func GraphQL(schema *graphql.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GraphQLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		resp := schema.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)
		c.JSON(http.StatusOK, resp)
	}
}
