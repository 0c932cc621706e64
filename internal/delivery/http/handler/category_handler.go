package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/service-directory/internal/pkg/utils"
)

// CategoryHandler - справочник категорий
type CategoryHandler struct {
	categories CategoryReader
	logger     *zap.Logger
}

func NewCategoryHandler(categories CategoryReader, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// List godoc
// @Summary Active categories
// @Description Активные категории, отсортированные по sortOrder и имени
// @Tags Categories
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.CategoryResponse}
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.UserContext())
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, fiber.StatusOK, categories, utils.ListMeta(len(categories)))
}

// Get godoc
// @Summary Category by name
// @Tags Categories
// @Produce json
// @Param name path string true "Category name"
// @Success 200 {object} utils.SuccessResponse{data=dto.CategoryResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/categories/{name} [get]
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	category, err := h.categories.Get(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}

	return utils.SendSuccess(c, fiber.StatusOK, category, nil)
}
