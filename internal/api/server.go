package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/analytics"
	"storefront/internal/api/handlers"
	"storefront/internal/api/middleware"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/orders"
	"storefront/internal/services/payments"
	"storefront/internal/stock"
	"storefront/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, log *logger.Logger, db *database.Database, rdb *redis.Client, analyticsRepo *analytics.Repository, publisher checkout.EventPublisher) (*Server, error) {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	carts, err := cart.NewRedisRepository(rdb, cfg.CartTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to build cart repository: %w", err)
	}
	stockCache, err := stock.NewRedisCache(rdb)
	if err != nil {
		return nil, fmt.Errorf("failed to build stock cache: %w", err)
	}
	sessions, err := users.NewSessionCache(rdb, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to build session cache: %w", err)
	}

	userService := users.NewService(db.DB)
	orderService := orders.NewService(db.DB)
	stockService := stock.NewService(db.DB, stockCache, cfg.LowStockThreshold, log)
	gateway := payments.NewClient(cfg.PaymentBaseURL, cfg.PaymentClientID, cfg.PaymentSecret, log)
	coordinator := checkout.NewCoordinator(userService, orderService, publisher, carts, log,
		checkout.WithClearDelay(cfg.CheckoutClearDelay))

	// Initialize handlers
	productHandler := handlers.NewProductHandler(db.DB, log)
	cartHandler := handlers.NewCartHandler(db.DB, carts, cfg.CartTTL, log)
	checkoutHandler := handlers.NewCheckoutHandler(db.DB, coordinator, gateway, sessions, carts, cfg.Currency, log)
	orderHandler := handlers.NewOrderHandler(orderService, log)
	taxHandler := handlers.NewTaxHandler(db.DB, log)
	discountHandler := handlers.NewDiscountHandler(db.DB, log)
	stockHandler := handlers.NewStockHandler(stockService, log)
	supplierHandler := handlers.NewSupplierHandler(db.DB, log)
	userHandler := handlers.NewUserHandler(userService, sessions, cfg.SessionTTL, log)
	messageHandler := handlers.NewMessageHandler(db.DB, log)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo, log)

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/all", productHandler.ListAll)
			products.GET("/:id", productHandler.Get)
			products.POST("", productHandler.Create)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
		}

		// Cart
		cartRoutes := v1.Group("/cart")
		{
			cartRoutes.GET("", cartHandler.Get)
			cartRoutes.POST("/items", cartHandler.Add)
			cartRoutes.PUT("/items/:id", cartHandler.UpdateQuantity)
			cartRoutes.DELETE("", cartHandler.Clear)
		}

		// Checkout
		checkoutRoutes := v1.Group("/checkout")
		{
			checkoutRoutes.POST("/payment-order", checkoutHandler.CreatePaymentOrder)
			checkoutRoutes.POST("", checkoutHandler.Complete)
		}

		// Orders
		orderRoutes := v1.Group("/orders")
		{
			orderRoutes.GET("", orderHandler.List)
			orderRoutes.GET("/:id", orderHandler.Get)
			orderRoutes.GET("/user/:id", orderHandler.ListByUser)
			orderRoutes.POST("/cancel", orderHandler.Cancel)
			orderRoutes.PUT("/:id/status", orderHandler.SetStatus)
		}

		// Tax
		tax := v1.Group("/tax")
		{
			tax.GET("/tax-rate", taxHandler.GetRate)
			tax.POST("/tax-rate", taxHandler.SetRate)
		}

		// Discounts
		discounts := v1.Group("/discounts")
		{
			discounts.GET("/categories", discountHandler.Categories)
			discounts.GET("/products", discountHandler.Products)
			discounts.POST("", discountHandler.Add)
			discounts.DELETE("/:id", discountHandler.Remove)
		}

		// Stock watcher
		stockRoutes := v1.Group("/stock")
		{
			stockRoutes.GET("/low", stockHandler.LowStock)
			stockRoutes.POST("/low/select-all", stockHandler.SelectAll)
			stockRoutes.POST("/low/:id/check", stockHandler.SetChecked)
			stockRoutes.POST("/low/submit", stockHandler.MoveSelected)
			stockRoutes.GET("/pending", stockHandler.Pending)
			stockRoutes.POST("/pending/:id/send-back", stockHandler.SendBack)
			stockRoutes.POST("/pending/submit", stockHandler.SubmitOrders)
		}

		// Suppliers
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", supplierHandler.List)
			suppliers.POST("", supplierHandler.Create)
			suppliers.PUT("/:id", supplierHandler.Update)
			suppliers.DELETE("/:id", supplierHandler.Delete)
			suppliers.GET("/orders", supplierHandler.Orders)
		}

		// Users
		userRoutes := v1.Group("/users")
		{
			userRoutes.GET("/user-id/:email", userHandler.UserID)
			userRoutes.POST("/login", userHandler.Login)
			userRoutes.POST("/logout", userHandler.Logout)
			userRoutes.GET("/profile/:id", userHandler.Profile)
			userRoutes.PUT("/profile/:id", userHandler.UpdateProfile)
		}

		// Messages
		messages := v1.Group("/messages")
		{
			messages.GET("", messageHandler.List)
			messages.POST("", messageHandler.Create)
			messages.DELETE("/:id", messageHandler.Delete)
		}

		// Analytics
		analyticsRoutes := v1.Group("/analytics")
		{
			analyticsRoutes.GET("/sales-by-category", analyticsHandler.SalesByCategory)
			analyticsRoutes.GET("/orders-by-status", analyticsHandler.OrdersByStatus)
		}
	}

	return &Server{
		config: cfg,
		logger: log,
		db:     db,
		router: router,
	}, nil
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

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
