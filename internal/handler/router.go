package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/middleware"
)

const healthTimeout = 3 * time.Second

// HealthCheck checks one dependency for the health route.
type HealthCheck func(ctx context.Context) error

type RouterConfig struct {
	Products  *service.ProductService
	Carts     *service.CartService
	Checkouts *service.CheckoutService
	Orders    *service.OrderService
	Users     *service.UserService

	Sessions middleware.TokenVerifier
	Logger   *zap.Logger

	ServiceName string
	Health      map[string]HealthCheck
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	products := NewProductHandler(cfg.Products, cfg.Logger)
	carts := NewCartHandler(cfg.Carts, cfg.Logger)
	checkouts := NewCheckoutHandler(cfg.Checkouts, cfg.Logger)
	orders := NewOrderHandler(cfg.Orders, cfg.Logger)
	users := NewUserHandler(cfg.Users, cfg.Logger)

	authRequired := middleware.Auth(cfg.Sessions)
	adminOnly := middleware.AdminOnly()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Logger))

	api := router.Group("/api")
	{
		api.GET("/health", health(cfg.ServiceName, cfg.Health))

		u := api.Group("/users")
		u.POST("/register", users.Register)
		u.POST("/login", users.Login)
		u.GET("/profile", authRequired, users.Profile)

		p := api.Group("/products")
		p.GET("", products.ListProducts)
		p.GET("/best-seller", products.BestSeller)
		p.GET("/new-arrivals", products.NewArrivals)
		p.GET("/similar/:id", products.SimilarProducts)
		p.GET("/:id", products.GetProduct)
		p.POST("", authRequired, adminOnly, products.CreateProduct)
		p.PUT("/:id", authRequired, adminOnly, products.UpdateProduct)
		p.DELETE("/:id", authRequired, adminOnly, products.DeleteProduct)

		cart := api.Group("/cart", middleware.OptionalAuth(cfg.Sessions))
		cart.POST("", carts.AddToCart)
		cart.PUT("", carts.UpdateCart)
		cart.DELETE("", carts.RemoveFromCart)
		cart.GET("", carts.GetCart)
		cart.POST("/merge", authRequired, carts.MergeCart)

		co := api.Group("/checkout", authRequired)
		co.POST("", checkouts.CreateCheckout)
		co.GET("/:id", checkouts.GetCheckout)
		co.PUT("/:id/pay", checkouts.PayCheckout)
		co.POST("/:id/finalize", checkouts.FinalizeCheckout)
		co.POST("/:id/confirm", checkouts.ConfirmCheckout)

		o := api.Group("/orders", authRequired)
		o.GET("/my-orders", orders.MyOrders)
		o.GET("/:id", orders.GetOrder)

		admin := api.Group("/admin", authRequired, adminOnly)
		admin.GET("/products", products.ListAllProducts)
		admin.GET("/orders", orders.ListOrders)
		admin.PUT("/orders/:id", orders.UpdateOrderStatus)
		admin.DELETE("/orders/:id", orders.DeleteOrder)
		admin.GET("/users", users.ListUsers)
		admin.POST("/users", users.CreateUser)
		admin.PUT("/users/:id", users.UpdateUser)
		admin.DELETE("/users/:id", users.DeleteUser)
	}

	return router
}

func health(serviceName string, checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status := gin.H{
			"status":  "healthy",
			"service": serviceName,
		}
		code := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status[name] = "unhealthy"
				status["status"] = "unhealthy"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "healthy"
		}
		c.JSON(code, status)
	}
}
