package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Route timeout classes. Long-running pipeline stages (silent video, merge,
// english composite) take on the order of minutes and get the long class;
// everything else gets the default.
const (
	DefaultTimeout = 30 * time.Second
	LongTimeout    = 15 * time.Minute
)

// WithTimeout bounds the request context. Cancellation stops the response
// wait, not the external work: a timed-out pipeline call may still complete
// and persist its artifacts.
func WithTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
