package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "go-gin-calendar/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestInvalidInput(t *testing.T) {
	t.Run("WithCause", func(t *testing.T) {
		cause := errors.New("parsing time \"x\"")

		err := invalidInput("Invalid from date", cause)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "Invalid from date", validationMessage(err))
		assert.Contains(t, err.Error(), "parsing time")
	})

	t.Run("WithoutCause", func(t *testing.T) {
		err := invalidInput("weekStart must be 0-6", nil)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Equal(t, "weekStart must be 0-6", err.Error())
	})

	t.Run("ValidationPrefixStripped", func(t *testing.T) {
		err := fmt.Errorf("%w: start must be before end", apperrors.ErrValidation)

		assert.Equal(t, "start must be before end", validationMessage(err))
	})
}

func TestParseTimeParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Absent", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/events", nil)

		got, err := parseTimeParam(c, "from")

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Failed - Malformed", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/events?to=later", nil)

		_, err := parseTimeParam(c, "to")

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Equal(t, "Invalid to date", validationMessage(err))
	})
}
