package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/apierr"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type CreateUserInput struct {
	Email      string
	Username   string
	Password   string
	IsAdmin    bool
	CanPublish bool
	CanComment bool
}

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*types.User, error)
	Get(ctx context.Context, userID uuid.UUID) (*types.User, error)
	List(ctx context.Context, offset, limit int) ([]*types.User, int64, error)
	// Update mutates username and the capability flags; only admins reach
	// this path.
	Update(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) (*types.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) Create(ctx context.Context, input CreateUserInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierr.Validation("invalid_email", fmt.Errorf("a valid email is required"))
	}
	if input.Password == "" {
		return nil, apierr.Validation("missing_password", fmt.Errorf("a password is required"))
	}
	existing, err := us.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, apierr.Validation("email_taken", fmt.Errorf("email %s is already registered", email))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	username := input.Username
	if username == "" {
		username = usernameFromEmail(email)
	}
	user := &types.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      input.IsAdmin,
		CanPublish:   input.CanPublish,
		CanComment:   input.CanComment,
	}
	if _, err := us.userRepo.Create(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	us.log.Info("User created", "user_id", user.ID)
	return user, nil
}

func (us *userService) Get(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user %s not found", userID))
	}
	return user, nil
}

func (us *userService) List(ctx context.Context, offset, limit int) ([]*types.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return us.userRepo.List(ctx, nil, offset, limit)
}

func (us *userService) Update(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) (*types.User, error) {
	if _, err := us.Get(ctx, userID); err != nil {
		return nil, err
	}
	if err := us.userRepo.UpdateFields(ctx, nil, userID, updates); err != nil {
		return nil, apierr.Validation("invalid_update", err)
	}
	return us.Get(ctx, userID)
}

func (us *userService) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := us.Get(ctx, userID); err != nil {
		return err
	}
	return us.userRepo.Delete(ctx, nil, userID)
}
