package inbound

import "github.com/gin-gonic/gin"

// OrderHttpPort defines HTTP handler interface for order registration.
type OrderHttpPort interface {
	// RegisterOrder handles POST /orders
	RegisterOrder(c *gin.Context)
}
