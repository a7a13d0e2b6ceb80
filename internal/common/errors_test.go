package common

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		err  error
		want error
		name string
	}{
		{name: "validation", err: NewValidationError("filterValue", "Value is required"), want: ErrValidation},
		{name: "conflict", err: &ConflictError{Resource: "Bank"}, want: ErrConflict},
		{name: "request", err: &RequestError{Method: "GET", Path: "/banks", Status: 500}, want: ErrRequest},
		{name: "wrapped conflict", err: fmt.Errorf("update bank: %w", &ConflictError{Resource: "Bank"}), want: ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.want)
			for _, other := range []error{ErrValidation, ErrConflict, ErrRequest} {
				if other != tt.want {
					assert.NotErrorIs(t, tt.err, other)
				}
			}
		})
	}
}

func TestRequestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &RequestError{Method: "DELETE", Path: "/stores/1", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "DELETE /stores/1: connection refused", err.Error())
}

func TestConflictError_Message(t *testing.T) {
	assert.Equal(t, "Store already exists", (&ConflictError{Resource: "Store"}).Error())
	assert.Equal(t, "duplicate", (&ConflictError{Resource: "Store", Message: "duplicate"}).Error())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
