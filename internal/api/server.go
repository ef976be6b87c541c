package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/api/handlers"
	"storefront/internal/api/middleware"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/resource"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, layer *resource.Layer, svc *services.Services, stats handlers.StatsSource) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.Session(cfg.Env == "production"))

	// Initialize handlers
	productHandler := handlers.NewProductHandler(svc, logger)
	catalogHandler := handlers.NewCatalogHandler(svc, logger)
	cartHandler := handlers.NewCartHandler(svc, logger, cfg.Currency)
	wishlistHandler := handlers.NewWishlistHandler(svc, logger)
	checkoutHandler := handlers.NewCheckoutHandler(svc, logger, cfg.Currency)
	orderHandler := handlers.NewOrderHandler(svc, logger)
	adminHandler := handlers.NewAdminHandler(svc, layer, stats, logger, cfg.CombinationsThreshold)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.POST("/filters", productHandler.UpdateFilters)
			products.GET("/featured", productHandler.Featured)
			products.GET("/recent-discount", productHandler.RecentDiscount)
			products.GET("/:slug", productHandler.Get)
			products.GET("/:slug/related", productHandler.Related)
		}

		// Catalog
		v1.GET("/filters", catalogHandler.Filters)
		search := v1.Group("/search")
		{
			search.GET("", catalogHandler.Search)
			search.GET("/suggestions", catalogHandler.Suggestions)
			search.GET("/popular", catalogHandler.Popular)
			search.GET("/instant", catalogHandler.Instant)
		}
		categories := v1.Group("/categories")
		{
			categories.GET("", catalogHandler.Categories)
			categories.GET("/best-selling", catalogHandler.BestSellingCategories)
			categories.GET("/:slug", catalogHandler.Category)
		}
		coupons := v1.Group("/coupons")
		{
			coupons.GET("", catalogHandler.ActiveCoupons)
			coupons.GET("/validate", catalogHandler.ValidateCoupon)
		}

		// Cart
		cart := v1.Group("/cart")
		{
			cart.GET("", cartHandler.Get)
			cart.DELETE("", cartHandler.Clear)
			cart.POST("/items", cartHandler.AddItem)
			cart.PATCH("/items", cartHandler.UpdateItem)
			cart.DELETE("/items", cartHandler.RemoveItem)
		}

		// Wishlist
		wishlist := v1.Group("/wishlist")
		{
			wishlist.GET("", wishlistHandler.Get)
			wishlist.DELETE("", wishlistHandler.Clear)
			wishlist.POST("/items", wishlistHandler.AddItem)
			wishlist.DELETE("/items", wishlistHandler.RemoveItem)
		}

		// Checkout
		checkout := v1.Group("/checkout")
		{
			checkout.GET("/summary", checkoutHandler.Summary)
			checkout.POST("/coupon", checkoutHandler.ApplyCoupon)
			checkout.DELETE("/coupon", checkoutHandler.RemoveCoupon)
		}

		// Orders
		orders := v1.Group("/orders")
		{
			orders.GET("", orderHandler.List)
			orders.POST("", orderHandler.Create)
			orders.GET("/:id", orderHandler.Get)
			orders.PATCH("/:id/cancel", orderHandler.Cancel)
			orders.PATCH("/:id/refund-request", orderHandler.RequestRefund)
		}

		// Admin
		admin := v1.Group("/admin")
		{
			admin.POST("/variants/combinations", adminHandler.Combinations)

			admin.POST("/products", productHandler.Create)
			admin.PATCH("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)

			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PATCH("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			admin.GET("/coupons", adminHandler.ListCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.PATCH("/coupons/:id", adminHandler.UpdateCoupon)
			admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

			admin.GET("/attributes", adminHandler.ListAttributes)
			admin.POST("/attributes", adminHandler.CreateAttribute)
			admin.PATCH("/attributes/:id", adminHandler.UpdateAttribute)
			admin.DELETE("/attributes/:id", adminHandler.DeleteAttribute)
			admin.GET("/attributes/:id/options", adminHandler.ListOptions)
			admin.POST("/attributes/:id/options", adminHandler.CreateOption)
			admin.PATCH("/options/:optionId", adminHandler.UpdateOption)
			admin.DELETE("/options/:optionId", adminHandler.DeleteOption)

			admin.GET("/stock/movements", adminHandler.StockMovements)
			admin.POST("/stock/adjust", adminHandler.AdjustStock)
			admin.POST("/stock/bulk-adjust", adminHandler.BulkAdjustStock)
			admin.GET("/stock/:productId", adminHandler.StockSummary)

			admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.GET("/customers", adminHandler.Customers)
			admin.GET("/dashboard", adminHandler.Dashboard)

			admin.GET("/cache/stats", adminHandler.CacheStats)
			admin.DELETE("/cache/*family", adminHandler.InvalidateCache)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}
