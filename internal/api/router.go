package api

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nexacorp/accounts-api/internal/api/handler"
	"github.com/nexacorp/accounts-api/internal/api/middleware"
	"github.com/nexacorp/accounts-api/internal/core/ports"
)

// Dependencies carries everything the router needs. All clients are
// constructed and owned by startup code; nothing here is a hidden singleton.
type Dependencies struct {
	Accounts ports.AccountService
	Auth     ports.AuthService
	Tokens   ports.TokenService
	Postgres *sql.DB
	Mongo    *mongo.Database
	Redis    *redis.Client
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// The three production tiers are compositions of gate stages: public routes
// get Public, authenticated routes get Authenticate, and admin routes get
// Authenticate followed by RequireAdmin.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	accountHandler := handler.NewAccountHandler(deps.Accounts)
	creditHandler := handler.NewCreditHandler(deps.Accounts)
	authHandler := handler.NewAuthHandler(deps.Auth)

	authenticate := middleware.Authenticate(deps.Tokens)
	requireAdmin := middleware.RequireAdmin()

	// --- Public tier ---
	public := e.Group("", middleware.Public())
	public.POST("/auth/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Postgres, deps.Mongo, deps.Redis)
	public.GET("/health", healthHandler.Liveness)
	public.GET("/health/ready", readinessHandler.Readiness)
	public.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	public.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated tier ---
	v1 := e.Group("/v1", authenticate)
	v1.GET("/accounts", accountHandler.List)
	v1.GET("/accounts/me", accountHandler.Me)
	v1.GET("/accounts/:id", accountHandler.Get)
	v1.GET("/accounts/:id/credit", creditHandler.Check)
	v1.POST("/accounts/:id/credit/deduct", creditHandler.Deduct)

	// --- Admin tier ---
	v1.POST("/accounts", accountHandler.Create, requireAdmin)
	v1.PUT("/accounts/:id", accountHandler.Update, requireAdmin)
	v1.DELETE("/accounts/:id", accountHandler.Delete, requireAdmin)
	v1.GET("/accounts/grouped", accountHandler.Grouped, requireAdmin)
	v1.GET("/accounts/:id/credit/history", creditHandler.History, requireAdmin)

	return e
}
