package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/service-directory/internal/config"
	"github.com/service-directory/internal/pkg/utils"
	"github.com/service-directory/internal/usecase/dto"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler - liveness probe
type HealthHandler struct {
	cfg     *config.Config
	storage func(ctx context.Context) error
	logger  *zap.Logger
	now     func() time.Time
}

// NewHealthHandler; storage может быть nil - тогда хранилище не проверяется
func NewHealthHandler(cfg *config.Config, storage func(ctx context.Context) error, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		cfg:     cfg,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Health godoc
// @Summary Health check
// @Description Всегда 200; status=degraded, если хранилище не отвечает
// @Tags Health
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.HealthResponse}
// @Router /api/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := "ok"
	if h.storage != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
		defer cancel()
		if err := h.storage(ctx); err != nil {
			h.logger.Warn("Storage health check failed", zap.Error(err))
			status = "degraded"
		}
	}

	return utils.SendSuccess(c, fiber.StatusOK, dto.HealthResponse{
		Status:         status,
		Timestamp:      h.now().UTC(),
		Environment:    h.cfg.Server.Env,
		StorageDriver:  h.cfg.Storage.Driver,
		AllowedOrigins: h.cfg.CORS.AllowedOrigins,
	}, nil)
}
