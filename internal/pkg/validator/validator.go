package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/service-directory/internal/domain"
	apperrors "github.com/service-directory/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Имена полей в ошибках берем из json тегов
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).IsValid()
	})
	mustRegister("service_status", func(fl validator.FieldLevel) bool {
		return domain.ServiceStatus(fl.Field().String()).IsValid()
	})
	mustRegister("service_source", func(fl validator.FieldLevel) bool {
		return domain.ServiceSource(fl.Field().String()).IsValid()
	})
	// notblank: строка из одних пробелов считается пустой
	mustRegister("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// hhmm: пустое значение допустимо, обязательность задается отдельным тегом
	mustRegister("hhmm", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		_, ok := domain.ParseClock(value)
		return ok
	})
	mustRegister("ymd", func(fl validator.FieldLevel) bool {
		return domain.ValidDate(fl.Field().String())
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Validate - валидация структуры. Возвращает VALIDATION_ERROR со всеми невалидными полями.
func Validate(s interface{}) error {
	fields := Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return apperrors.Validation(fields...)
}

// Fields возвращает ошибки по полям без оборачивания, чтобы их можно было
// объединить с другими проверками (например, координат) в одну ошибку.
func Fields(s interface{}) []apperrors.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperrors.FieldError{{Field: "body", Message: err.Error()}}
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apperrors.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return fields
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// fieldPath отрезает имя корневой структуры: "CreateServiceRequest.address.full" -> "address.full"
func fieldPath(namespace string) string {
	if _, rest, found := strings.Cut(namespace, "."); found {
		return rest
	}
	return namespace
}

func message(fe validator.FieldError) string {
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "min", "gte":
		if numeric {
			return "must be greater than or equal to " + fe.Param()
		}
		return fmt.Sprintf("must contain at least %s items or characters", fe.Param())
	case "max", "lte":
		if numeric {
			return "must be less than or equal to " + fe.Param()
		}
		return fmt.Sprintf("must contain at most %s items or characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "category":
		return "must be a valid category"
	case "service_status":
		return "must be one of: " + joinStatuses()
	case "service_source":
		return "must be one of: admin_added, user_submitted, imported"
	case "timezone":
		return "must be a valid IANA time zone"
	case "hhmm":
		return "must be a time in HH:MM format"
	case "ymd":
		return "must be a date in YYYY-MM-DD format"
	}
	return "failed on the '" + fe.Tag() + "' rule"
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func joinStatuses() string {
	parts := make([]string, 0, len(domain.ServiceStatuses))
	for _, s := range domain.ServiceStatuses {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}
