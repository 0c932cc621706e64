package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// FieldError - ошибка валидации одного поля
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError - ошибка приложения с HTTP статусом
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Errors     []FieldError           `json:"errors,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`

	cause error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	if len(e.Errors) > 0 {
		parts := make([]string, 0, len(e.Errors))
		for _, fe := range e.Errors {
			parts = append(parts, fe.Field+" "+fe.Message)
		}
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает исходную ошибку (для errors.Is / errors.As)
func (e *AppError) Unwrap() error {
	return e.cause
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// Validation создает ошибку валидации со списком всех невалидных полей
func Validation(fields ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    "Validation failed",
		Errors:     fields,
		StatusCode: http.StatusBadRequest,
	}
}

// NotFound создает ошибку 404
func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

// Conflict создает ошибку 409 (дубликат)
func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

// Internal оборачивает неожиданную ошибку хранилища/рантайма в 500.
// Стек вызовов сохраняется для development режима.
func Internal(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
		cause:      pkgerrors.WithStack(err),
	}
}

// Wrap добавляет контекст к ошибке вместе со стеком
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// As - обертка над errors.As для AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

func IsConflict(err error) bool { return hasCode(err, CodeConflict) }

// StackTrace возвращает стек исходной ошибки (если он был сохранен)
func StackTrace(err error) string {
	appErr, ok := As(err)
	if ok {
		if appErr.cause == nil {
			return ""
		}
		return fmt.Sprintf("%+v", appErr.cause)
	}
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%+v", err)
}
