package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/chativo/backend/internal/config"
	"github.com/chativo/backend/internal/dto"
	"github.com/chativo/backend/internal/handler"
	"github.com/chativo/backend/internal/utils"
	"github.com/chativo/backend/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// App is the thin HTTP front door. It validates payloads, runs the declared
// auth precondition, and forwards commands to the auth service without any
// business logic of its own.
type App struct {
	config   *config.Config
	logger   *zap.Logger
	router   *gin.Engine
	server   *http.Server
	client   *Client
	tokens   *utils.TokenService
	validate *validator.Validate
}

func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	_, metricsHandler, err := observability.InitTelemetry("gateway")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	a := &App{
		config:   cfg,
		logger:   logger,
		client:   NewClient(cfg.Gateway.AuthServiceURL, cfg.Gateway.RequestTimeout.Duration),
		tokens:   utils.NewTokenService(cfg.JWT.Secret, cfg.JWT.TokenExpiry.Duration),
		validate: validator.New(),
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("gateway"))
	router.Use(handler.LoggerMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "pass"})
	})

	for _, cmd := range Commands() {
		handlers := make([]gin.HandlerFunc, 0, 2)
		if cmd.RequiresAuth {
			handlers = append(handlers, a.requireAuth())
		}
		handlers = append(handlers, a.dispatch(cmd))
		router.Handle(cmd.Method, cmd.Route, handlers...)
	}

	a.router = router
	a.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Gateway.Host, cfg.Gateway.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// requireAuth is the composable precondition declared by protected commands.
// The gateway verifies the bearer token locally with the shared secret
// instead of a round trip per request.
func (a *App) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := handler.BearerToken(c)
		claims, err := a.tokens.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(handler.ContextUserKey, claims.User)
		c.Set(handler.ContextUserIDKey, claims.User.ID)

		c.Next()
	}
}

// dispatch forwards a command to the auth service, substituting route
// params into the downstream path.
func (a *App) dispatch(cmd Command) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte

		if cmd.Payload != nil {
			payload := cmd.Payload()
			if err := c.ShouldBindJSON(payload); err != nil {
				c.JSON(http.StatusBadRequest, dto.ErrorResponse{
					Error:   "BadRequest",
					Message: err.Error(),
				})
				return
			}
			if err := a.validate.Struct(payload); err != nil {
				c.JSON(http.StatusBadRequest, dto.ErrorResponse{
					Error:   "BadRequest",
					Message: err.Error(),
				})
				return
			}

			var err error
			body, err = json.Marshal(payload)
			if err != nil {
				c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error:   "Internal",
					Message: "failed to encode payload",
				})
				return
			}
		}

		path := cmd.Path
		for _, param := range c.Params {
			path = strings.Replace(path, ":"+param.Key, param.Value, 1)
		}

		resp, err := a.client.Forward(c.Request.Context(), cmd.Method, path, c.Request.URL.RawQuery, handler.BearerToken(c), body)
		if err != nil {
			a.logger.Error("downstream request failed",
				zap.String("command", cmd.Name), zap.Error(err))
			c.JSON(http.StatusBadGateway, dto.ErrorResponse{
				Error:   "BadGateway",
				Message: "auth service unavailable",
			})
			return
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			c.JSON(http.StatusBadGateway, dto.ErrorResponse{
				Error:   "BadGateway",
				Message: "failed to read downstream response",
			})
			return
		}

		c.Data(resp.StatusCode, "application/json", data)
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.logger.Info("Gateway starting",
			zap.String("host", a.config.Gateway.Host),
			zap.String("port", a.config.Gateway.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		serverErr = err
	case <-ctx.Done():
		a.logger.Info("Gateway stopped by context")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}
