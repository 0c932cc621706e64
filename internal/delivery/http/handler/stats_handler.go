package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/service-directory/internal/pkg/utils"
)

// StatsHandler обрабатывает запросы для статистики
type StatsHandler struct {
	stats  StatsProvider
	logger *zap.Logger
}

// NewStatsHandler создает новый экземпляр StatsHandler
func NewStatsHandler(stats StatsProvider, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		logger: logger,
	}
}

// GetStatistics godoc
// @Summary Directory statistics
// @Description Число записей по статусам и категориям, всего и подтвержденных
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.Statistics}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/admin/stats [get]
func (h *StatsHandler) GetStatistics(c *fiber.Ctx) error {
	h.logger.Debug("Handling get statistics request")

	stats, err := h.stats.GetStatistics(c.UserContext())
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, fiber.StatusOK, stats, nil)
}
