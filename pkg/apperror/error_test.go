package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"go-talent-pipeline/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	t.Run("Should map each constructor to its HTTP status", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, apperror.BadRequest("bad").Code)
		assert.Equal(t, http.StatusUnauthorized, apperror.Unauthorized("who").Code)
		assert.Equal(t, http.StatusNotFound, apperror.NotFound("gone").Code)
		assert.Equal(t, http.StatusInternalServerError, apperror.Internal(errors.New("boom")).Code)
		assert.Equal(t, http.StatusServiceUnavailable, apperror.Unavailable(errors.New("down")).Code)
	})

	t.Run("Should unwrap to the underlying cause", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		err := apperror.Unavailable(cause)

		assert.True(t, errors.Is(err, cause))
		// The client-facing message never leaks the cause
		assert.Equal(t, "Service temporarily unavailable", err.Error())
	})

	t.Run("Should survive errors.As through wrapping", func(t *testing.T) {
		var appErr *apperror.AppError
		wrapped := error(apperror.NotFound("Application not found"))

		assert.True(t, errors.As(wrapped, &appErr))
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})
}
