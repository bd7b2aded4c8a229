package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medsup-innovation/medsup-backend/pkg/auth"
	"github.com/medsup-innovation/medsup-backend/pkg/config"
	"github.com/medsup-innovation/medsup-backend/pkg/db"
	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/security"
)

// LoginInput carries the credentials for an operator login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserView is the operator payload embedded in auth responses.
type UserView struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Role        enums.UserRole `json:"role"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
}

// LoginResult is the successful login payload.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}

// Service exposes the operator authentication operations.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*UserView, error)
}

type service struct {
	repo *Repository
	jwt  config.JWTConfig
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires the auth service with its dependencies.
func NewService(repo *Repository, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("auth service requires a repository")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("auth service requires a jwt secret")
	}
	if logg == nil {
		return nil, fmt.Errorf("auth service requires a logger")
	}
	return &service{
		repo: repo,
		jwt:  jwtCfg,
		logg: logg,
		now:  time.Now,
	}, nil
}

// Login verifies the credentials and mints an access token. Unknown
// emails and wrong passwords return the same error so the endpoint does
// not leak which accounts exist.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.repo.FindUserByEmail(ctx, input.Email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		logCtx := s.logg.WithField(ctx, "user_id", user.ID)
		s.logg.Warn(logCtx, "auth.login.bad_password")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	now := s.now().UTC()
	token, err := auth.MintAccessToken(s.jwt, now, auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: touch last login")
	}
	user.LastLoginAt = &now

	logCtx := s.logg.WithFields(ctx, map[string]any{"user_id": user.ID, "role": user.Role})
	s.logg.Info(logCtx, "auth.login.success")

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.jwt.Expiration()),
		User:      toUserView(user),
	}, nil
}

func (s *service) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}
	view := toUserView(user)
	return &view, nil
}

func toUserView(user *models.User) UserView {
	return UserView{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
