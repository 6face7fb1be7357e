package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jam/internal/models"
)

func TestStatusOKWithData(t *testing.T) {
	resp := StatusOKWithData(map[string]any{"route": "home"})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]any{"route": "home"}, resp.Data)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Email    string `validate:"required,email"`
		Password string `validate:"min=6"`
		Theme    string `validate:"oneof=light dark"`
	}

	err := validator.New().Struct(request{Password: "123", Theme: "blue"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "field Email is a required field, field Password must be at least 6 characters, "+
		"field Theme must be one of: light dark", resp.Error)
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", fmt.Errorf("comments.Add: %w: text is empty", models.ErrValidation), http.StatusUnprocessableEntity, "validation error: text is empty"},
		{"not found", fmt.Errorf("storage.GetUser: %w", models.ErrNotFound), http.StatusNotFound, "not found"},
		{"username taken", models.ErrUsernameTaken, http.StatusConflict, "Username is already taken"},
		{"username required", models.ErrUsernameRequired, http.StatusForbidden, "choose a username first"},
		{"self follow", models.ErrSelfFollow, http.StatusBadRequest, "cannot follow yourself"},
		{"credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := FromError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}
