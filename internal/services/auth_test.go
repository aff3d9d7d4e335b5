package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/apierr"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	svc := NewAuthService(testDB(t), testLogger(t), users, "test-secret", time.Hour)
	return svc, users
}

func TestLoginCreatesAccountOnFirstUse(t *testing.T) {
	t.Parallel()
	svc, users := newAuthFixture(t)

	user, token, err := svc.Login(context.Background(), "Reader@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if user.Email != "reader@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Username != "reader" {
		t.Fatalf("derived username %q", user.Username)
	}
	if !user.CanComment {
		t.Fatal("new accounts comment by default")
	}
	if len(users.users) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(users.users))
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthFixture(t)

	if _, _, err := svc.Login(context.Background(), "reader@example.com", "correct"); err != nil {
		t.Fatalf("first login: %v", err)
	}
	_, _, err := svc.Login(context.Background(), "reader@example.com", "wrong")
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %v", err)
	}
}

func TestLoginValidatesInput(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthFixture(t)

	if _, _, err := svc.Login(context.Background(), "not-an-email", "pw"); err == nil {
		t.Fatal("expected email validation error")
	}
	if _, _, err := svc.Login(context.Background(), "reader@example.com", ""); err == nil {
		t.Fatal("expected password validation error")
	}
}

func TestValidateTokenRoundTrip(t *testing.T) {
	t.Parallel()
	svc, users := newAuthFixture(t)

	user, token, err := svc.Login(context.Background(), "admin@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	users.users[user.ID].IsAdmin = true

	// The admin flag is snapshotted at issue time, not re-read.
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("subject %s, want %s", claims.UserID, user.ID)
	}
	if claims.IsAdmin {
		t.Fatal("token issued before the grant must not carry admin")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthFixture(t)

	for _, token := range []string{"", "not.a.jwt", "aaa.bbb.ccc"} {
		if _, err := svc.ValidateToken(token); err == nil {
			t.Fatalf("token %q: expected rejection", token)
		}
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	issuer := NewAuthService(testDB(t), testLogger(t), users, "secret-a", time.Hour)
	verifier := NewAuthService(testDB(t), testLogger(t), users, "secret-b", time.Hour)

	_, token, err := issuer.Login(context.Background(), "reader@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}
