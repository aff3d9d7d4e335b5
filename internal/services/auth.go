package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/apierr"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type AuthClaims struct {
	UserID  uuid.UUID
	IsAdmin bool
}

type AuthService interface {
	// Login authenticates by email. An unknown email creates the account on
	// first successful login; a known email must match the stored password.
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	ValidateToken(tokenString string) (*AuthClaims, error)
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		db:       db,
		log:      baseLog.With("service", "AuthService"),
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", apierr.Validation("invalid_email", fmt.Errorf("a valid email is required"))
	}
	if password == "" {
		return nil, "", apierr.Validation("missing_password", fmt.Errorf("a password is required"))
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, "", fmt.Errorf("hash password: %w", hashErr)
		}
		user = &types.User{
			ID:           uuid.New(),
			Email:        email,
			Username:     usernameFromEmail(email),
			PasswordHash: string(hash),
			CanComment:   true,
		}
		if _, err := as.userRepo.Create(ctx, nil, user); err != nil {
			return nil, "", fmt.Errorf("create user on first login: %w", err)
		}
		as.log.Info("User created on first login", "user_id", user.ID)
	} else if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apierr.Forbidden("invalid_credentials", fmt.Errorf("email or password is incorrect"))
	}

	token, err := as.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (as *authService) issueToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"admin": user.IsAdmin,
		"iat":   now.Unix(),
		"exp":   now.Add(as.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) ValidateToken(tokenString string) (*AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierr.Forbidden("invalid_token", fmt.Errorf("token is invalid or expired"))
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierr.Forbidden("invalid_token", fmt.Errorf("unexpected claims shape"))
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, apierr.Forbidden("invalid_token", fmt.Errorf("bad subject claim"))
	}
	isAdmin, _ := claims["admin"].(bool)
	return &AuthClaims{UserID: userID, IsAdmin: isAdmin}, nil
}

func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
