package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/vbforge/product-catalog/docs"
	"github.com/vbforge/product-catalog/internal/api/handler"
	"github.com/vbforge/product-catalog/internal/api/middleware"
	"github.com/vbforge/product-catalog/internal/auth/token"
	"github.com/vbforge/product-catalog/internal/core/domain"
	"github.com/vbforge/product-catalog/internal/core/service"
	mongodb "github.com/vbforge/product-catalog/internal/infrastructure/db/mongo"
	redisdb "github.com/vbforge/product-catalog/internal/infrastructure/db/redis"
)

// AccessTable declares the route access policy, first match wins. Anything
// not listed requires an authenticated identity.
func AccessTable() middleware.Table {
	return middleware.Table{
		// /auth/me needs an identity even though its siblings are public.
		{Method: http.MethodGet, Pattern: "/auth/me", Policy: middleware.Authenticated()},
		{Pattern: "/auth/**", Policy: middleware.Public()},
		{Pattern: "/health/**", Policy: middleware.Public()},
		{Pattern: "/metrics", Policy: middleware.Public()},
		{Pattern: "/swagger/**", Policy: middleware.Public()},
		{Pattern: "/api/admin/**", Policy: middleware.Roles(domain.RoleAdmin)},
		{Pattern: "/api/products/**", Policy: middleware.Roles(domain.RoleUser, domain.RoleAdmin)},
		{Pattern: "/api/tags/**", Policy: middleware.Roles(domain.RoleUser, domain.RoleAdmin)},
	}
}

// NewRouter builds the Echo instance with all routes registered.
// Dependencies are constructed leaf first: repositories, then services,
// then handlers, then the middleware chain.
func NewRouter(db *mongo.Database, rdb *redis.Client, codec *token.Codec, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("catalog"))
	e.Use(middleware.Authenticate(codec))
	e.Use(middleware.Enforce(AccessTable()))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	tagRepo := mongodb.NewTagRepository(db)
	throttle := redisdb.NewLoginThrottle(rdb)

	// --- Services ---
	authService := service.NewAuthService(userRepo, codec, throttle, log)
	productService := service.NewProductService(productRepo, tagRepo, log)
	tagService := service.NewTagService(tagRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	tagHandler := handler.NewTagHandler(tagService)
	adminHandler := handler.NewAdminHandler(productRepo, tagRepo, userRepo)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.GET("/auth/me", authHandler.Me)

	// --- Product routes ---
	e.POST("/api/products", productHandler.Create)
	e.GET("/api/products", productHandler.List)
	e.GET("/api/products/:id", productHandler.Get)
	e.PUT("/api/products/:id", productHandler.Update)
	e.DELETE("/api/products/:id", productHandler.Delete)
	e.POST("/api/products/:id/tags/:tagId", productHandler.AddTag)
	e.DELETE("/api/products/:id/tags/:tagId", productHandler.RemoveTag)

	// --- Tag routes ---
	e.POST("/api/tags", tagHandler.Create)
	e.GET("/api/tags", tagHandler.List)
	e.GET("/api/tags/:id", tagHandler.Get)
	e.PUT("/api/tags/:id", tagHandler.Update)
	e.DELETE("/api/tags/:id", tagHandler.Delete)

	// --- Admin routes ---
	e.GET("/api/admin/stats", adminHandler.Stats)
	e.GET("/api/admin/info", adminHandler.Info)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
