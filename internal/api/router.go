package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/chirpnet/social-api/docs"
	"github.com/chirpnet/social-api/internal/api/handler"
	"github.com/chirpnet/social-api/internal/api/middleware"
	"github.com/chirpnet/social-api/internal/core/ports"
)

const bodyLimit = "10M"

// Deps carries everything NewRouter needs to build the HTTP surface.
type Deps struct {
	Log          zerolog.Logger
	ClientURL    string
	SecureCookie bool

	Auth          ports.AuthService
	Profiles      ports.ProfileService
	Graph         ports.GraphService
	Notifications ports.NotificationService

	// Checks are probed by GET /health/ready, keyed by dependency name.
	Checks map[string]handler.DependencyCheck
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	if d.ClientURL != "" {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     []string{d.ClientURL},
			AllowMethods:     []string{echo.GET, echo.POST, echo.PATCH, echo.OPTIONS},
			AllowCredentials: true,
		}))
	}
	e.Use(prometheusMiddleware(d.Registry))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.SecureCookie)
	userHandler := handler.NewUserHandler(d.Profiles, d.Graph, d.Auth)
	notificationHandler := handler.NewNotificationHandler(d.Notifications)
	healthHandler := handler.NewHealthHandler(d.Checks)
	requireSession := middleware.Auth(d.Auth)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, requireSession)

	// --- User routes ---
	users := api.Group("/users", requireSession)
	users.GET("/profile/:username", userHandler.GetProfile)
	users.GET("/suggested", userHandler.Suggested)
	users.POST("/follow/:id", userHandler.ToggleFollow)
	users.PATCH("/profile", userHandler.UpdateProfile)
	users.PATCH("/email", userHandler.UpdateEmail)
	users.PATCH("/password", userHandler.UpdatePassword)

	// --- Notification routes ---
	api.GET("/notifications", notificationHandler.List, requireSession)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func prometheusMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
