// Package rest exposes the storefront services over HTTP/JSON using gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const defaultShutdownTimeout = 10 * time.Second

type RESTServer struct {
	address         string
	shutdownTimeout time.Duration
	logger          logging.Logger
	users           *services.UserService
	carts           *services.CartService
	orders          *services.OrderService
	products        *services.ProductService
	engine          *gin.Engine
}

func NewRESTServer(cfg *config.Config, l logging.Logger, us *services.UserService, cs *services.CartService, ors *services.OrderService, ps *services.ProductService) *RESTServer {
	s := &RESTServer{
		address:         cfg.HTTPAddr,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          l.With("module", "rest_server"),
		users:           us,
		carts:           cs,
		orders:          ors,
		products:        ps,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = defaultShutdownTimeout
	}

	s.engine = s.routes(cfg)
	return s
}

// Handler returns the router, mainly for tests.
func (s *RESTServer) Handler() http.Handler {
	return s.engine
}

func (s *RESTServer) routes(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.requestLogger(), cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	limiter := NewRateLimiter(rate.Every(time.Minute/time.Duration(max(cfg.AuthRatePerMinute, 1))), max(cfg.AuthRateBurst, 1))
	authGroup := r.Group("/auth", limiter.Middleware())
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	r.GET("/api/profile", s.authenticate(), s.profile)

	r.GET("/products", s.listProducts)
	r.POST("/products", s.authenticate(), s.createProduct)
	r.DELETE("/products/:id", s.authenticate(), s.deleteProduct)

	cart := r.Group("/cart")
	cart.GET("", s.getCart)
	cart.POST("", s.addToCart)
	cart.PUT("/:index", s.updateCartLine)
	cart.DELETE("/:index", s.removeCartLine)
	cart.PUT("/items/:productId", s.updateCartProduct)
	cart.DELETE("/items/:productId", s.removeCartProduct)

	orders := r.Group("/orders", s.authenticate())
	orders.POST("", s.placeOrder)
	orders.GET("", s.listOrders)
	orders.GET("/all", s.listAllOrders)

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", cartIDHeader, requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *RESTServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
