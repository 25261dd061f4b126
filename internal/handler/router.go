package handler

import (
	"net/http"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/middleware"
	"storefront-be/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the settings the route table needs from the
// environment.
type RouterConfig struct {
	JWTSecret      string
	InternalKey    string
	AllowedOrigins []string
	Limiter        *middleware.Limiter
}

type Handlers struct {
	Orders   *OrderHandler
	Coupons  *CouponHandler
	Invoices *InvoiceHandler
	Settings *SettingsHandler
	Health   *HealthHandler
}

func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	r := gin.New()

	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", logger.RequestIDHeader, middleware.InternalAuthHeader},
		ExposeHeaders:    []string{"Content-Length", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}

	r.Use(
		gin.Recovery(),
		cors.New(corsCfg),
		logger.RequestIDMiddleware(),
		logger.LoggingMiddleware("/health"),
		middleware.Authenticate(cfg.JWTSecret),
	)

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = middleware.NewLimiter(cfg.InternalKey)
	}
	general := limiter.RateLimit(middleware.TierGeneral)
	public := limiter.RateLimit(middleware.TierPublic)
	strict := limiter.RateLimit(middleware.TierStrict)

	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireRole(utils.RoleAdmin)

	if h.Health != nil {
		r.GET("/health", h.Health.Check)
	}

	orders := r.Group("/orders")
	{
		orders.GET("/track/:trackingId", public, h.Orders.Track)

		orders.POST("", general, requireAuth, h.Orders.Create)
		orders.GET("/my-orders", general, requireAuth, h.Orders.MyOrders)
		orders.GET("/:id", general, requireAuth, h.Orders.Get)
		orders.PUT("/:id/cancel", general, requireAuth, h.Orders.Cancel)
		orders.DELETE("/:id", general, requireAuth, h.Orders.Delete)

		orders.GET("", general, requireAdmin, h.Orders.List)
		orders.PUT("/:id/status", general, requireAdmin, h.Orders.UpdateStatus)
		orders.PUT("/:id/tracking", general, requireAdmin, h.Orders.AppendTracking)
	}

	coupons := r.Group("/coupons")
	{
		coupons.GET("/validate/:code", public, h.Coupons.Validate)
		coupons.POST("/:id/use", strict, middleware.InternalOrRole(cfg.InternalKey, utils.RoleAdmin), h.Coupons.Use)

		coupons.POST("", general, requireAdmin, h.Coupons.Create)
		coupons.GET("", general, requireAdmin, h.Coupons.List)
		coupons.GET("/:id", general, requireAdmin, h.Coupons.Get)
		coupons.PUT("/:id", general, requireAdmin, h.Coupons.Update)
		coupons.DELETE("/:id", general, requireAdmin, h.Coupons.Delete)
	}

	invoices := r.Group("/invoices", general, requireAuth)
	{
		invoices.POST("/:orderId", h.Invoices.Generate)
		invoices.GET("/order/:orderId", h.Invoices.GetByOrder)
	}

	settingsGroup := r.Group("/settings", general, requireAdmin)
	{
		settingsGroup.GET("/billing", h.Settings.GetBilling)
		settingsGroup.PUT("/billing", h.Settings.UpdateBilling)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "reason": "NOT_FOUND", "message": "route not found"})
	})

	return r
}
