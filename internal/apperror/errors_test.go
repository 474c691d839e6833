package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"ms-storefront/internal/apperror"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", apperror.InvalidArgument("cartId is required"), http.StatusBadRequest},
		{"not found", apperror.NotFound("cart not found"), http.StatusNotFound},
		{"conflict", apperror.Conflict("sold out"), http.StatusConflict},
		{"internal", apperror.Internal("failed", errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("unclassified"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperror.HTTPStatus(tc.err))
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("checkout cart-1: %w", apperror.NotFound("cart not found"))

	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.False(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, "cart not found", apperror.PublicMessage(err, "fallback"))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperror.Internal("failed to process checkout", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to process checkout", apperror.PublicMessage(err, "x"))
	assert.Equal(t, "fallback", apperror.PublicMessage(errors.New("raw"), "fallback"))
	assert.False(t, apperror.Is(nil, apperror.KindInternal))
}
