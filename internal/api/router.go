package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/chatapp/realtime-chat/internal/api/handler"
	"github.com/chatapp/realtime-chat/internal/api/middleware"
	"github.com/chatapp/realtime-chat/internal/core/ports"
)

const maxBodySize = "10M"

// RouterConfig carries everything the HTTP layer depends on.
type RouterConfig struct {
	AuthService    ports.AuthService
	MessageService ports.MessageService
	Verifier       ports.TokenVerifier
	Accounts       middleware.AccountLoader
	Limiter        *middleware.RateLimiter
	HealthChecks   map[string]handler.DependencyCheck
	Cookies        handler.CookieOptions
	AllowOrigins   []string
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP
	// instead of the socket address.
	TrustProxy bool
	Logger     zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)
	if !cfg.TrustProxy {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	registerer := cfg.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
	}))
	e.Use(echomiddleware.BodyLimit(maxBodySize))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "chat",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	guard := middleware.Auth(cfg.Verifier, cfg.Accounts, cfg.Logger)
	authLimit := cfg.Limiter.Middleware(middleware.AuthPolicy)
	generalLimit := cfg.Limiter.Middleware(middleware.GeneralPolicy)
	messageLimit := cfg.Limiter.Middleware(middleware.MessagePolicy)
	strictLimit := cfg.Limiter.Middleware(middleware.StrictPolicy)

	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Cookies)
	messageHandler := handler.NewMessageHandler(cfg.MessageService)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup, authLimit)
	auth.POST("/login", authHandler.Login, authLimit)
	auth.GET("/logout", authHandler.Logout)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/refresh", authHandler.Refresh, strictLimit)
	auth.GET("/me", authHandler.Me, generalLimit, guard)
	auth.PATCH("/update", authHandler.UpdateProfile, generalLimit, guard)
	auth.PUT("/update", authHandler.UpdateProfile, generalLimit, guard)

	// --- Message routes (/api/message is kept as an alias) ---
	// TODO: push new messages to connected receivers once a realtime transport is added.
	for _, base := range []string{"/api/messages", "/api/message"} {
		g := e.Group(base, generalLimit)
		g.GET("/users", messageHandler.Contacts, guard)
		g.GET("/:id", messageHandler.Thread, guard)
		g.POST("/send/:id", messageHandler.Send, messageLimit, guard)
	}

	// --- Health probes and metrics (no auth required) ---
	health := handler.NewHealthHandler(cfg.HealthChecks)
	e.GET("/health", health.Liveness)        // is the process alive?
	e.GET("/health/ready", health.Readiness) // are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	return e
}
