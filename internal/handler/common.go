package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go-gin-calendar/internal/model"
	apperrors "go-gin-calendar/pkg/app_errors"
	"go-gin-calendar/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		err = invalidInput("Invalid request format", err)
		handleError(c, err, "BindJson")
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		err = invalidInput("Invalid query parameters", err)
		handleError(c, err, "BindQuery")
		return err
	}
	return nil
}

// inputError is a malformed request. message is what the client sees; the
// cause only goes to the log.
type inputError struct {
	message string
	cause   error
}

func (e *inputError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

func (e *inputError) Unwrap() []error {
	if e.cause == nil {
		return []error{apperrors.ErrInvalidInput}
	}
	return []error{apperrors.ErrInvalidInput, e.cause}
}

func invalidInput(message string, cause error) error {
	return &inputError{message: message, cause: cause}
}

// parseTimeParam parses an optional ISO 8601 query parameter. An absent or
// empty value yields nil; a malformed one is an ErrInvalidInput.
func parseTimeParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := model.ParseTimestamp(raw)
	if err != nil {
		return nil, invalidInput("Invalid "+name+" date", err)
	}
	return &t, nil
}

// parseEventID 無效格式的 id 等同不存在的 id
func parseEventID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		logger.WithComponent("handler").Warn("Malformed event id", zap.String("id", c.Param("id")))
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return uuid.Nil, false
	}
	return id, true
}

func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"message": validationMessage(err)})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

// validationMessage strips the sentinel prefix so clients see only the
// field-level reason, e.g. "start must be before end".
func validationMessage(err error) string {
	var ie *inputError
	if errors.As(err, &ie) {
		return ie.message
	}
	msg := err.Error()
	if trimmed, ok := strings.CutPrefix(msg, apperrors.ErrValidation.Error()+": "); ok {
		return trimmed
	}
	return msg
}
