package handlers

import (
	"net/http"

	"github.com/omarch7/APIS-On-Rails/internal/metrics"
	"github.com/omarch7/APIS-On-Rails/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.Default()

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	r.Use(sessions.Sessions("market_session", store))
	r.Use(metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", metrics.Handler())

	// Public Routes
	r.POST("/users", h.CreateUser)
	r.GET("/users/:user_id", h.ShowUser)
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.ShowProduct)
	r.GET("/products/:id/qr", h.ProductQR)
	r.POST("/sessions", h.Login)
	r.DELETE("/sessions", h.Logout)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(h.TokenAuth())
	{
		authorized.PATCH("/users/:user_id", h.UpdateUser)
		authorized.PUT("/users/:user_id", h.UpdateUser)
		authorized.DELETE("/users/:user_id", h.DeleteUser)

		authorized.POST("/users/:user_id/products", h.CreateProduct)
		authorized.PATCH("/users/:user_id/products/:id", h.UpdateProduct)
		authorized.PUT("/users/:user_id/products/:id", h.UpdateProduct)
		authorized.DELETE("/users/:user_id/products/:id", h.DeleteProduct)

		authorized.GET("/users/:user_id/orders", h.ListOrders)
		authorized.POST("/users/:user_id/orders", h.CreateOrder)
		authorized.GET("/users/:user_id/orders/:id", h.ShowOrder)
		authorized.DELETE("/users/:user_id/orders/:id", h.DeleteOrder)
	}

	return r
}
