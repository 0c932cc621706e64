package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/service-directory/internal/pkg/utils"
	"github.com/service-directory/internal/usecase/query"
)

// ServiceHandler - публичные запросы к справочнику
type ServiceHandler struct {
	services ServiceFinder
	logger   *zap.Logger
}

// NewServiceHandler - создание нового ServiceHandler
func NewServiceHandler(services ServiceFinder, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{
		services: services,
		logger:   logger,
	}
}

// Nearby godoc
// @Summary Nearby services
// @Description Активные записи в радиусе от точки, ближние первыми
// @Tags Services
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius query int false "Radius in meters (100-50000)" default(5000)
// @Param category query string false "Category"
// @Param limit query int false "Limit (1-100)" default(20)
// @Success 200 {object} utils.SuccessResponse{data=[]dto.ServiceResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Router /api/services/nearby [get]
func (h *ServiceHandler) Nearby(c *fiber.Ctx) error {
	services, err := h.services.Nearby(c.UserContext(), query.NearbyParams{
		Lat:      c.Query("lat"),
		Lng:      c.Query("lng"),
		Radius:   c.Query("radius"),
		Category: c.Query("category"),
		Limit:    c.Query("limit"),
	})
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, fiber.StatusOK, services, utils.ListMeta(len(services)))
}

// Search godoc
// @Summary Search services
// @Description Поиск подстроки (без учета регистра) по имени, подкатегории, описанию и адресу
// @Tags Services
// @Produce json
// @Param q query string true "Search text"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Param radius query int false "Radius in meters (100-50000)" default(10000)
// @Param limit query int false "Limit (1-100)" default(20)
// @Success 200 {object} utils.SuccessResponse{data=[]dto.ServiceResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/services/search [get]
func (h *ServiceHandler) Search(c *fiber.Ctx) error {
	services, err := h.services.Search(c.UserContext(), query.SearchParams{
		Q:      c.Query("q"),
		Lat:    c.Query("lat"),
		Lng:    c.Query("lng"),
		Radius: c.Query("radius"),
		Limit:  c.Query("limit"),
	})
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, fiber.StatusOK, services, utils.ListMeta(len(services)))
}

// ByCategory godoc
// @Summary Services by category
// @Tags Services
// @Produce json
// @Param category path string true "Category"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Param radius query int false "Radius in meters (100-50000)" default(10000)
// @Param limit query int false "Limit (1-100)" default(20)
// @Success 200 {object} utils.SuccessResponse{data=[]dto.ServiceResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/services/category/{category} [get]
func (h *ServiceHandler) ByCategory(c *fiber.Ctx) error {
	services, err := h.services.ByCategory(c.UserContext(), query.CategoryParams{
		Category: c.Params("category"),
		Lat:      c.Query("lat"),
		Lng:      c.Query("lng"),
		Radius:   c.Query("radius"),
		Limit:    c.Query("limit"),
	})
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, fiber.StatusOK, services, utils.ListMeta(len(services)))
}

// GetByID godoc
// @Summary Service card
// @Tags Services
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.ServiceResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/services/{id} [get]
func (h *ServiceHandler) GetByID(c *fiber.Ctx) error {
	service, err := h.services.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, fiber.StatusOK, service, nil)
}
