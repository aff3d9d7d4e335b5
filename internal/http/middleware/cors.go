package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shelfcast/shelfcast-backend/internal/http/response"
)

// trustedHostSuffixes are hosting-platform domains the frontends deploy to.
// Matching is by substring on the Origin header, mirroring what both
// consoles expect in production.
var trustedHostSuffixes = []string{
	".tcloudbaseapp.com",
	".app.github.dev",
	".vercel.app",
	".netlify.app",
}

type CORSConfig struct {
	// AllowedOrigins is the explicit allow-list (frontend/admin URLs).
	AllowedOrigins []string
}

func (cfg CORSConfig) originAllowed(origin string) bool {
	for _, allowed := range cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	for _, suffix := range trustedHostSuffixes {
		if strings.Contains(origin, suffix) {
			return true
		}
	}
	return false
}

// CORS allows credentialed requests from the allow-list and trusted hosting
// platforms. Requests without an Origin header (native/mobile clients) pass
// through; a disallowed origin is rejected with an explicit error body, not
// silently dropped.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	corsHandler := cors.New(cors.Config{
		AllowOriginFunc:  cfg.originAllowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		if !cfg.originAllowed(origin) {
			response.RespondError(c, 403, "cors_origin_forbidden", fmt.Errorf("origin %q is not allowed by CORS policy", origin))
			c.Abort()
			return
		}
		corsHandler(c)
	}
}
