package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/service-directory/internal/config"
	"github.com/service-directory/internal/delivery/http/handler"
	"github.com/service-directory/internal/delivery/http/middleware"
	apperrors "github.com/service-directory/internal/pkg/errors"
	"github.com/service-directory/internal/pkg/utils"
)

// Handlers - набор обработчиков, которые монтирует сервер
type Handlers struct {
	Services   *handler.ServiceHandler
	Categories *handler.CategoryHandler
	Admin      *handler.AdminHandler
	Stats      *handler.StatsHandler
	Health     *handler.HealthHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	handlers Handlers
}

// NewServer - создание нового HTTP сервера
func NewServer(cfg *config.Config, logger *zap.Logger, handlers Handlers) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Service Directory",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    1 << 20,
		ErrorHandler: errorHandler(logger, cfg.Server.IsDevelopment()),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - экземпляр Fiber (для app.Test в тестах)
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.CORS.AllowedOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api", middleware.RateLimit(s.config.RateLimit.Max, s.config.RateLimit.Window))

	api.Get("/health", s.handlers.Health.Health)

	// Публичные выборки; конкретные пути раньше /:id
	services := api.Group("/services")
	services.Get("/nearby", s.handlers.Services.Nearby)
	services.Get("/search", s.handlers.Services.Search)
	services.Get("/category/:category", s.handlers.Services.ByCategory)
	services.Get("/:id", s.handlers.Services.GetByID)

	api.Get("/categories", s.handlers.Categories.List)
	api.Get("/categories/:name", s.handlers.Categories.Get)

	admin := api.Group("/admin")
	admin.Get("/services", s.handlers.Admin.List)
	admin.Post("/services", s.handlers.Admin.Create)
	admin.Put("/services/:id", s.handlers.Admin.Update)
	admin.Delete("/services/:id", s.handlers.Admin.Delete)
	admin.Get("/stats", s.handlers.Stats.GetStatistics)

	s.app.Use(func(c *fiber.Ctx) error {
		return apperrors.NotFound("Route not found")
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler переводит любую ошибку обработчика в конверт ответа
func errorHandler(logger *zap.Logger, withStack bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			err = fromFiberError(fe)
		}

		appErr, ok := apperrors.As(err)
		if !ok {
			appErr = apperrors.Internal(err)
		}

		if appErr.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", appErr.StatusCode),
				zap.Error(err),
			)
		}

		return utils.SendError(c, appErr, withStack)
	}
}

func fromFiberError(fe *fiber.Error) *apperrors.AppError {
	switch {
	case fe.Code == fiber.StatusNotFound:
		return apperrors.NotFound("Route not found")
	case fe.Code == fiber.StatusTooManyRequests:
		return apperrors.ErrRateLimited()
	case fe.Code == fiber.StatusConflict:
		return apperrors.Conflict(fe.Message)
	case fe.Code >= fiber.StatusInternalServerError:
		return apperrors.New(apperrors.CodeInternal, "Internal server error", fe.Code)
	default:
		return apperrors.New(apperrors.CodeValidation, fe.Message, fe.Code)
	}
}
