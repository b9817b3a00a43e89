package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError_PassesThroughWrappedAppError(t *testing.T) {
	err := fmt.Errorf("loading product: %w", NewNotFoundError("Product"))

	appErr := GetAppError(err)

	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Product not found", appErr.Message)
}

func TestGetAppError_HidesPlainErrors(t *testing.T) {
	appErr := GetAppError(errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestNewInternalError_Unwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError("Failed to write report", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to write report: disk full", err.Error())
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("selling_price", "must be greater than 0")

	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Equal(t, []FieldError{{Field: "selling_price", Message: "must be greater than 0"}}, err.Errors)
}
