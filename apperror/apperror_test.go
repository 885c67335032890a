package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
		kind   Kind
	}{
		{"validation", Validation("bad", FieldError{Field: "email", Message: "required"}), http.StatusUnprocessableEntity, KindValidation},
		{"not found", NotFound("missing"), http.StatusNotFound, KindNotFound},
		{"duplicate 409", Duplicate(http.StatusConflict, "dup"), http.StatusConflict, KindDuplicate},
		{"duplicate 400", Duplicate(http.StatusBadRequest, "dup"), http.StatusBadRequest, KindDuplicate},
		{"unauthorized", Unauthorized("no"), http.StatusUnauthorized, KindUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden, KindForbidden},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.kind, tt.err.Kind)
		})
	}
}

func TestFromKeepsTypedErrors(t *testing.T) {
	nf := NotFound("No District Found")
	wrapped := fmt.Errorf("lookup: %w", nf)

	got := From(wrapped)
	require.Same(t, nf, got)

	cause := errors.New("connection reset")
	internal := From(cause)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.ErrorIs(t, internal, cause)
	assert.Contains(t, internal.Error(), "connection reset")
}
