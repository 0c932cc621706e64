package errors

import "net/http"

const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeConflict    = "CONFLICT"
	CodeRateLimited = "RATE_LIMITED"
	CodeInternal    = "INTERNAL_ERROR"
)

// Конструкторы вместо общих переменных: AppError не должен мутироваться между запросами.

func ErrServiceNotFound() *AppError {
	return NotFound("Service not found")
}

func ErrCategoryNotFound() *AppError {
	return NotFound("Category not found")
}

func ErrDuplicateService() *AppError {
	return Conflict("A service with the same name already exists at this location")
}

func ErrRateLimited() *AppError {
	return New(
		CodeRateLimited,
		"Too many requests, please try again later.",
		http.StatusTooManyRequests,
	)
}
