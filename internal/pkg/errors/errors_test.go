package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/service-directory/internal/pkg/errors"
)

func TestValidation_KeepsEveryField(t *testing.T) {
	err := apperrors.Validation(
		apperrors.FieldError{Field: "latitude", Message: "must be less than or equal to 90"},
		apperrors.FieldError{Field: "longitude", Message: "must be less than or equal to 180"},
	)

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Len(t, err.Errors, 2)
	assert.Contains(t, err.Error(), "latitude")
	assert.Contains(t, err.Error(), "longitude")
	assert.True(t, apperrors.IsValidation(err))
}

func TestInternal_WrapsCauseWithStack(t *testing.T) {
	cause := stderrors.New("connection reset")

	err := apperrors.Internal(cause)

	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, apperrors.CodeInternal, err.Code)
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, apperrors.StackTrace(err), "errors_test.go")
}

func TestInternal_PassesAppErrorThrough(t *testing.T) {
	notFound := apperrors.ErrServiceNotFound()

	err := apperrors.Internal(notFound)

	assert.Same(t, notFound, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Nil(t, apperrors.Internal(nil))
}

func TestWithDetails_DoesNotMutateOriginal(t *testing.T) {
	base := apperrors.ErrDuplicateService()

	withDetails := base.WithDetails(map[string]interface{}{"name": "Cafe"})

	assert.Nil(t, base.Details)
	assert.Equal(t, "Cafe", withDetails.Details["name"])
	assert.True(t, apperrors.IsConflict(withDetails))
}

func TestStackTrace_EmptyForPlainAppError(t *testing.T) {
	assert.Empty(t, apperrors.StackTrace(apperrors.ErrCategoryNotFound()))
	assert.Empty(t, apperrors.StackTrace(nil))
}
