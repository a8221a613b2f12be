package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/theagilemonkeys/crm-api/docs"
	"github.com/theagilemonkeys/crm-api/internal/api/handler"
	"github.com/theagilemonkeys/crm-api/internal/api/middleware"
	"github.com/theagilemonkeys/crm-api/internal/core/domain"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
	"github.com/theagilemonkeys/crm-api/internal/core/service"
	"github.com/theagilemonkeys/crm-api/internal/infrastructure/config"
	mongodb "github.com/theagilemonkeys/crm-api/internal/infrastructure/db/mongo"
	redisdb "github.com/theagilemonkeys/crm-api/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client,
	store ports.ObjectStorage, log zerolog.Logger) *echo.Echo {

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("crm"))

	// --- Dependencies ---
	byLogin := redisdb.NewUserCache(rdb, ports.UsersByLoginCache)
	byEmail := redisdb.NewUserCache(rdb, ports.UsersByEmailCache)

	userRepo := service.NewCachedUserRepository(mongodb.NewUserRepository(db), byLogin, byEmail, log)
	customerRepo := mongodb.NewCustomerRepository(db)

	resolver := service.NewIdentityResolver(userRepo, cfg.DefaultLangKey, log)
	userService := service.NewUserService(userRepo, byLogin, byEmail, resolver, service.UserOptions{
		DefaultLangKey:      cfg.DefaultLangKey,
		AnonymousLogin:      cfg.AnonymousLogin,
		AllowLoginOverwrite: cfg.Security.AllowLoginOverwrite,
	}, log)
	customerService := service.NewCustomerService(customerRepo, store, cfg.DefaultLangKey, log)
	tokenService := service.NewTokenService(cfg.Security.AdminLogin, cfg.Security.AdminPasswordHash,
		cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	authz := service.NewAuthorizer(userRepo, service.ParseCustomerPolicy(cfg.Security.CustomerPolicy), log)

	userHandler := handler.NewUserHandler(userService)
	customerHandler := handler.NewCustomerHandler(customerService)
	accountHandler := handler.NewAccountHandler(userService)
	tokenHandler := handler.NewTokenHandler(tokenService)

	authn := middleware.Auth(cfg.Security.JWTSecret)

	// --- Public routes ---
	e.POST("/api/authenticate", tokenHandler.Authenticate)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Account (authenticated, no role requirement) ---
	e.GET("/api/account", accountHandler.Get, authn)
	e.POST("/api/account", accountHandler.Update, authn)

	// --- User management (ADMIN)  ---
	users := e.Group("/api/users", authn)
	users.GET("", userHandler.List, middleware.Authorize(authz, domain.OpUserList))
	users.POST("", userHandler.Create, middleware.Authorize(authz, domain.OpUserCreate))
	users.GET("/authorities", userHandler.Authorities, middleware.Authorize(authz, domain.OpAuthoritiesRead))
	users.GET("/:login", userHandler.Get, middleware.Authorize(authz, domain.OpUserSearch))
	users.PUT("/:login", userHandler.Update, middleware.Authorize(authz, domain.OpUserUpdate))
	users.DELETE("/:login", userHandler.Delete, middleware.Authorize(authz, domain.OpUserDelete))

	// --- Customers (policy-dependent) ---
	customers := e.Group("/api/customers", authn)
	customers.GET("", customerHandler.List, middleware.Authorize(authz, domain.OpCustomerList))
	customers.POST("", customerHandler.Create, middleware.Authorize(authz, domain.OpCustomerCreate))
	customers.PUT("", customerHandler.Update, middleware.Authorize(authz, domain.OpCustomerUpdate))
	customers.GET("/:id", customerHandler.Get, middleware.Authorize(authz, domain.OpCustomerSearch))
	customers.DELETE("/:id", customerHandler.Delete, middleware.Authorize(authz, domain.OpCustomerDelete))
	customers.POST("/:id/image", customerHandler.UploadImage, middleware.Authorize(authz, domain.OpCustomerUpdate))

	return e
}
