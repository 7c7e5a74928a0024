package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/gin-gonic/gin"
)

// Response is the envelope every JSON endpoint returns. Code is 0 on
// success and the HTTP status times 100 otherwise.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "success", Data: data})
}

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Code: status * 100, Message: message})
}

func abortWithData(c *gin.Context, status int, message string, data any) {
	c.AbortWithStatusJSON(status, Response{Code: status * 100, Message: message, Data: data})
}

func badRequest(c *gin.Context, message string) {
	abortWith(c, http.StatusBadRequest, message)
}

// statusFor maps a use-case error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInsufficientQuantity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrReferenced):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are logged and
// reported without detail.
func fail(c *gin.Context, err error) {
	failWithData(c, err, nil)
}

// failWithData is fail for use cases that return partial results alongside
// their error.
func failWithData(c *gin.Context, err error, data any) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(requestIDKey),
			"error", err,
		)
		abortWith(c, status, "internal server error")
		return
	}
	abortWithData(c, status, domain.Message(err), data)
}
