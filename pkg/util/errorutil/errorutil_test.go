package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"domain error passes through", NewForbidden("nope"), http.StatusForbidden, CodeForbidden},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewAccountInactive()), http.StatusBadRequest, CodeAccountInactive},
		{"no rows", fmt.Errorf("load: %w", pgx.ErrNoRows), http.StatusNotFound, CodeNotFound},
		{"fiber not found", fiber.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"fiber timeout", fiber.ErrRequestTimeout, http.StatusRequestTimeout, http.StatusText(http.StatusRequestTimeout)},
		{"fiber unprocessable", fiber.NewError(http.StatusUnprocessableEntity, "bad"), http.StatusUnprocessableEntity, CodeValidation},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			assert.Equal(t, tt.status, got.HTTPStatus)
			assert.Equal(t, tt.code, got.Code)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestFieldErrorDetails(t *testing.T) {
	err := ToDomainError(NewFieldError("state", "invalid transition"))

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, map[string]any{"state": "invalid transition"}, err.Details)
}

func TestRenderFailedUnwraps(t *testing.T) {
	cause := errors.New("exit status 1")
	err := NewRenderFailed(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, ToDomainError(err).HTTPStatus)
	assert.True(t, IsNotFound(NewNotFound("order", nil)))
	assert.False(t, IsNotFound(err))
}
