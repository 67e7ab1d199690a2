package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/travelguard/backoffice/internal/api/dashboard"
	"github.com/travelguard/backoffice/internal/api/handler"
	"github.com/travelguard/backoffice/internal/api/middleware"
	"github.com/travelguard/backoffice/internal/api/session"
	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs from the application.
type Dependencies struct {
	Users      ports.UserService
	Auth       ports.AuthService
	Clients    ports.ClientService
	Insurances ports.InsuranceService

	// Health maps dependency names to their readiness checks.
	Health map[string]func(context.Context) error
	Logger zerolog.Logger

	SecureCookies bool
	CORSOrigins   []string
	// LoginRate is the sustained number of login requests per second
	// allowed per client IP. Zero disables the limiter.
	LoginRate float64
	// Metrics mounts the Prometheus middleware and GET /metrics. Enable it on
	// at most one router per process.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	renderer, err := dashboard.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.CORSOrigins,
		AllowCredentials: !allowsAnyOrigin(deps.CORSOrigins),
	}))
	if deps.Metrics {
		e.Use(echoprometheus.NewMiddleware("backoffice"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	cookies := session.Cookies{Secure: deps.SecureCookies}
	authenticated := middleware.Auth(deps.Auth)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Health probes (no auth required) ---
	health := handler.NewHealthHandler(deps.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api")

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth, cookies)
	var loginMW []echo.MiddlewareFunc
	if deps.LoginRate > 0 {
		loginMW = append(loginMW, loginLimiter(deps.LoginRate))
	}
	v1.POST("/auth/login", authHandler.Login, loginMW...)
	v1.POST("/auth/logout", authHandler.Logout)
	v1.GET("/auth/me", authHandler.Me, authenticated)

	// --- Users (ADMIN) ---
	users := handler.NewUserHandler(deps.Users)
	ug := v1.Group("/users", authenticated, adminOnly)
	ug.GET("", users.List)
	ug.POST("", users.Create)
	ug.GET("/:id", users.Get)
	ug.PUT("/:id", users.Update)
	ug.PATCH("/:id", users.Update)
	ug.DELETE("/:id", users.Delete)

	// --- Clients ---
	clients := handler.NewClientHandler(deps.Clients, deps.Insurances)
	cg := v1.Group("/clients", authenticated)
	cg.GET("", clients.List)
	cg.POST("", clients.Create)
	cg.GET("/:id", clients.Get)
	cg.GET("/:id/insurances", clients.Insurances)
	cg.PUT("/:id", clients.Update)
	cg.PATCH("/:id", clients.Update)
	cg.DELETE("/:id", clients.Delete)

	// --- Insurances ---
	insurances := handler.NewInsuranceHandler(deps.Insurances)
	ig := v1.Group("/insurances", authenticated)
	ig.GET("", insurances.List)
	ig.POST("", insurances.Create)
	ig.GET("/policy/:policyNumber", insurances.ByPolicyNumber)
	ig.GET("/:id", insurances.Get)
	ig.PUT("/:id", insurances.Update)
	ig.PATCH("/:id", insurances.Update)
	ig.POST("/:id/cancel", insurances.Cancel)
	ig.DELETE("/:id", insurances.Delete)

	// --- Dashboard (HTML) ---
	dash := dashboard.New(dashboard.Services{
		Users:      deps.Users,
		Auth:       deps.Auth,
		Clients:    deps.Clients,
		Insurances: deps.Insurances,
	}, cookies, deps.Logger)
	dash.Register(e, loginMW...)

	return e, nil
}

// requestLogger writes one zerolog line per request.
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
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
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

// loginLimiter throttles login attempts per client IP.
func loginLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(_ echo.Context, _ error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(_ echo.Context, _ string, _ error) error {
			return domain.ErrTooManyAttempts
		},
	})
}

func allowsAnyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
