package server

import (
	"context"
	"ecommerce-shop/internal/config"
	"ecommerce-shop/internal/handler"
	"ecommerce-shop/internal/logger"
	"ecommerce-shop/internal/middleware"
	"ecommerce-shop/internal/notify"
	"ecommerce-shop/internal/service"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Services struct {
	Catalog       service.CatalogService
	Cart          service.CartService
	Checkout      service.CheckoutService
	Orders        service.OrderService
	Reviews       service.ReviewService
	PasswordReset service.PasswordResetService
}

type Server struct {
	echo       *echo.Echo
	cfg        *config.Config
	log        *zap.Logger
	dispatcher *notify.Dispatcher

	catalogHandler  *handler.CatalogHandler
	vendorHandler   *handler.VendorHandler
	cartHandler     *handler.CartHandler
	orderHandler    *handler.OrderHandler
	reviewHandler   *handler.ReviewHandler
	passwordHandler *handler.PasswordHandler
}

func NewServer(cfg *config.Config, log *zap.Logger, dispatcher *notify.Dispatcher, services Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(logger.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, middleware.SessionHeader, handler.IdempotencyKeyHeader},
		ExposeHeaders: []string{middleware.SessionHeader},
	}))

	s := &Server{
		echo:            e,
		cfg:             cfg,
		log:             log,
		dispatcher:      dispatcher,
		catalogHandler:  handler.NewCatalogHandler(services.Catalog),
		vendorHandler:   handler.NewVendorHandler(services.Catalog),
		cartHandler:     handler.NewCartHandler(services.Cart),
		orderHandler:    handler.NewOrderHandler(services.Checkout, services.Orders),
		reviewHandler:   handler.NewReviewHandler(services.Reviews),
		passwordHandler: handler.NewPasswordHandler(services.PasswordReset),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(s.cfg.Auth.JWTSecret)
	session := middleware.SessionMiddleware(s.cfg.Cart.TTL, s.cfg.Environment.IsProduction())

	// -------- catalog --------
	api.GET("/stores", s.catalogHandler.ListStores)
	api.GET("/stores/:id", s.catalogHandler.GetStore)
	api.GET("/products/:id", s.catalogHandler.GetProduct)
	api.GET("/products/:id/reviews", s.reviewHandler.ListReviews)
	api.POST("/products/:id/reviews", s.reviewHandler.CreateReview, auth)

	// -------- cart & checkout --------
	api.GET("/cart", s.cartHandler.View, session, auth)
	api.POST("/cart/items", s.cartHandler.AddItem, session, auth)
	api.DELETE("/cart/items/:product_id", s.cartHandler.RemoveItem, session, auth)
	api.POST("/checkout", s.orderHandler.Checkout, session, auth)

	// -------- orders --------
	orders := api.Group("/orders", auth)
	orders.GET("", s.orderHandler.ListOrders)
	orders.GET("/:id", s.orderHandler.GetOrder)

	// -------- vendor --------
	vendor := api.Group("/vendor", auth)
	vendor.GET("/stores", s.vendorHandler.ListStores)
	vendor.POST("/stores", s.vendorHandler.CreateStore)
	vendor.PUT("/stores/:id", s.vendorHandler.UpdateStore)
	vendor.DELETE("/stores/:id", s.vendorHandler.DeleteStore)
	vendor.GET("/stores/:id/products", s.vendorHandler.ListProducts)
	vendor.POST("/stores/:id/products", s.vendorHandler.CreateProduct)
	vendor.PUT("/stores/:id/products/:product_id", s.vendorHandler.UpdateProduct)
	vendor.DELETE("/stores/:id/products/:product_id", s.vendorHandler.DeleteProduct)

	// -------- password reset --------
	password := api.Group("/password", middleware.RateLimit(s.cfg.Reset))
	password.POST("/forgot", s.passwordHandler.Forgot)
	password.GET("/reset/:token", s.passwordHandler.ValidateToken)
	password.POST("/reset/:token", s.passwordHandler.Reset)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	err := s.echo.Start(address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, then waits for queued notifications.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	if err := s.dispatcher.Drain(ctx); err != nil {
		s.log.Warn("notifications still pending at shutdown", zap.Error(err))
	}
	return nil
}
