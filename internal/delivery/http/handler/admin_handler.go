package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/service-directory/internal/pkg/utils"
	"github.com/service-directory/internal/usecase/dto"
	"github.com/service-directory/internal/usecase/query"
)

// AdminHandler - управление записями справочника
type AdminHandler struct {
	admin  ServiceAdmin
	logger *zap.Logger
}

// NewAdminHandler - создание нового AdminHandler
func NewAdminHandler(admin ServiceAdmin, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		logger: logger,
	}
}

// Create godoc
// @Summary Create service
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequest true "Service"
// @Success 201 {object} utils.SuccessResponse{data=dto.ServiceResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/admin/services [post]
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateServiceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	service, err := h.admin.Create(c.UserContext(), req)
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, fiber.StatusCreated, service, nil)
}

// List godoc
// @Summary Admin service list
// @Description Постраничный список всех записей (любой статус) с фильтрами и сортировкой
// @Tags Admin
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Limit (1-100)" default(20)
// @Param status query string false "Status"
// @Param category query string false "Category"
// @Param search query string false "Search in name, address, description"
// @Param sortBy query string false "name|category|createdAt|rating|status" default(createdAt)
// @Param sortOrder query string false "asc|desc" default(desc)
// @Success 200 {object} utils.SuccessResponse{data=[]dto.ServiceResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/admin/services [get]
func (h *AdminHandler) List(c *fiber.Ctx) error {
	list, err := h.admin.List(c.UserContext(), query.AdminListParams{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		Status:    c.Query("status"),
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, fiber.StatusOK, list.Services,
		utils.PageMeta(len(list.Services), list.Total, list.Page, list.Pages))
}

// Update godoc
// @Summary Update service
// @Description Частичное обновление; при смене координат точка пересчитывается
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param request body dto.UpdateServiceRequest true "Fields to update"
// @Success 200 {object} utils.SuccessResponse{data=dto.ServiceResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/admin/services/{id} [put]
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateServiceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	service, err := h.admin.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, fiber.StatusOK, service, nil)
}

// Delete godoc
// @Summary Delete service
// @Tags Admin
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/admin/services/{id} [delete]
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	if err := h.admin.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	return utils.SendMessage(c, fiber.StatusOK, "Service deleted successfully")
}
