package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/service-directory/internal/pkg/errors"
)

// SuccessResponse - конверт успешного ответа
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Total   *int64      `json:"total,omitempty"`
	Page    *int        `json:"page,omitempty"`
	Pages   *int        `json:"pages,omitempty"`
}

// ErrorResponse - конверт ошибки
type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Errors  []errors.FieldError `json:"errors,omitempty"`
	Stack   string              `json:"stack,omitempty"`
}

// Meta - метаданные списка
type Meta struct {
	Count *int
	Total *int64
	Page  *int
	Pages *int
}

// ListMeta - метаданные для непагинированного списка
func ListMeta(count int) *Meta {
	return &Meta{Count: &count}
}

// PageMeta - метаданные для страницы админского списка
func PageMeta(count int, total int64, page, pages int) *Meta {
	return &Meta{Count: &count, Total: &total, Page: &page, Pages: &pages}
}

func SendSuccess(c *fiber.Ctx, status int, data interface{}, meta *Meta) error {
	resp := SuccessResponse{
		Success: true,
		Data:    data,
	}
	if meta != nil {
		resp.Count = meta.Count
		resp.Total = meta.Total
		resp.Page = meta.Page
		resp.Pages = meta.Pages
	}
	return c.Status(status).JSON(resp)
}

func SendMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(SuccessResponse{
		Success: true,
		Message: message,
	})
}

// SendError пишет конверт ошибки. Стек добавляется только при withStack.
func SendError(c *fiber.Ctx, err error, withStack bool) error {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal(err)
	}

	resp := ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
		Errors:  appErr.Errors,
	}
	if withStack {
		resp.Stack = errors.StackTrace(appErr)
	}

	return c.Status(appErr.StatusCode).JSON(resp)
}
