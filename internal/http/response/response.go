// Package response implements the uniform envelope every endpoint replies
// with: {success: true, data} on success, {success: false, message, error}
// on failure.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/apierr"
)

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	// RetryAfter is only set on rate-limit rejections, in seconds.
	RetryAfter int `json:"retryAfter,omitempty"`
}

func RespondOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: payload})
}

func RespondCreated(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: payload})
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, Envelope{Success: false, Message: msg, Error: code})
}

// RespondFromError maps an error to the envelope: apierr carries its own
// status and code, anything else becomes a generic 500 with no internal
// detail leaked.
func RespondFromError(c *gin.Context, err error) {
	if apiErr, ok := apierr.From(err); ok {
		RespondError(c, apiErr.Status, apiErr.Code, apiErr)
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Message: "internal server error",
		Error:   "internal_error",
	})
}

func RespondRateLimited(c *gin.Context, retryAfterSeconds int) {
	c.JSON(http.StatusTooManyRequests, Envelope{
		Success:    false,
		Message:    "too many requests",
		Error:      "rate_limited",
		RetryAfter: retryAfterSeconds,
	})
}
