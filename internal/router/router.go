package router

import (
	"errors"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"servicedirectory/internal/auth"
	"servicedirectory/internal/config"
	apperrors "servicedirectory/internal/errors"
	"servicedirectory/internal/handler"
	"servicedirectory/internal/metrics"
)

// ClaimsContextKey is where the guard stores *auth.Claims.
const ClaimsContextKey = "user"

var errRefreshAsAccess = errors.New("refresh token used as access token")

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *zap.Logger,
	httpMetrics *metrics.HTTPMetrics,
	jwtService *auth.JWTService,
	serviceHandler *handler.ServiceHandler,
	authHandler *handler.AuthHandler,
	imageHandler *handler.ImageHandler,
) {
	if logger == nil {
		logger = zap.NewNop()
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	if httpMetrics != nil {
		e.Use(httpMetrics.Middleware())
		e.GET("/metrics", httpMetrics.Handler())
	}

	e.Validator = handler.NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/servicedetails", serviceHandler.ListServices)
	api.POST("/getservice", serviceHandler.SearchServices)
	api.GET("/images/*", imageHandler.GetImage)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/refresh", authHandler.Refresh)
	api.POST("/logout", authHandler.Logout)

	if cfg.ListingRequiresAuth {
		api.POST("/addservice", serviceHandler.AddService, accessTokenGuard(jwtService))
	} else {
		api.POST("/addservice", serviceHandler.AddService)
	}
}

// accessTokenGuard accepts bearer access tokens only. Refresh tokens carry a
// token ID and are rejected.
func accessTokenGuard(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ClaimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			if claims.ID != "" {
				return nil, errRefreshAsAccess
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Message: "missing or invalid access token",
				Code:    "UNAUTHORIZED",
			})
		},
	})
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	}
}
