package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/apierr"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/services"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

// stubAuth accepts exactly one token and returns fixed claims for it.
type stubAuth struct {
	token  string
	claims services.AuthClaims
}

func (s *stubAuth) Login(context.Context, string, string) (*types.User, string, error) {
	return nil, "", fmt.Errorf("not used")
}

func (s *stubAuth) ValidateToken(tokenString string) (*services.AuthClaims, error) {
	if tokenString != s.token {
		return nil, apierr.Forbidden("invalid_token", fmt.Errorf("token is invalid or expired"))
	}
	claims := s.claims
	return &claims, nil
}

func newAuthRouter(t *testing.T, auth services.AuthService, adminOnly bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	mw := NewAuthMiddleware(log, auth)
	guard := mw.RequireAuth()
	if adminOnly {
		guard = mw.RequireAdmin()
	}
	r := gin.New()
	r.GET("/guarded", guard, func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.String(http.StatusInternalServerError, "no claims")
			return
		}
		c.String(http.StatusOK, claims.UserID.String())
	})
	return r
}

func getGuarded(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	r := newAuthRouter(t, &stubAuth{token: "good", claims: services.AuthClaims{UserID: userID}}, false)

	w := getGuarded(r, "Bearer good")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if w.Body.String() != userID.String() {
		t.Fatalf("claims not attached, body %q", w.Body.String())
	}
}

func TestRequireAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	t.Parallel()
	r := newAuthRouter(t, &stubAuth{token: "good"}, false)

	for _, header := range []string{"", "good", "Basic good", "Bearer"} {
		w := getGuarded(r, header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status %d, want 401", header, w.Code)
		}
	}
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	t.Parallel()
	r := newAuthRouter(t, &stubAuth{token: "good"}, false)

	w := getGuarded(r, "Bearer forged")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", w.Code)
	}
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	t.Parallel()
	r := newAuthRouter(t, &stubAuth{token: "good", claims: services.AuthClaims{UserID: uuid.New()}}, true)

	w := getGuarded(r, "Bearer good")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", w.Code)
	}
}

func TestRequireAdminAcceptsAdmin(t *testing.T) {
	t.Parallel()
	r := newAuthRouter(t, &stubAuth{token: "good", claims: services.AuthClaims{UserID: uuid.New(), IsAdmin: true}}, true)

	w := getGuarded(r, "Bearer good")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
}
