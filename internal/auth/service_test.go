package auth

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/config"
	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/security"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("MEDSUP_DB_DSN")
	if dsn == "" {
		t.Skip("MEDSUP_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "medsup-test",
		ExpirationMinutes: 30,
	}
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "auth-test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	})
}

func mustCreateTestUser(t *testing.T, tx *gorm.DB, password string, active bool) *models.User {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("auth_test_%s@example.com", uuid.NewString()[:8]),
		PasswordHash: hash,
		Name:         "Auth Tester",
		Role:         enums.UserRoleManager,
		IsActive:     active,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestLoginSuccess(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	user := mustCreateTestUser(t, tx, "correct horse battery", true)

	svc, err := NewService(NewRepository(tx), testJWTConfig(), quietLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    user.Email,
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	if result.User.ID != user.ID || result.User.Role != enums.UserRoleManager {
		t.Fatalf("unexpected user payload: %+v", result.User)
	}
	if result.User.LastLoginAt == nil {
		t.Fatal("expected last_login_at to be set")
	}
}

func TestLoginRejectsBadPasswordAndUnknownEmailAlike(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	user := mustCreateTestUser(t, tx, "correct horse battery", true)

	svc, err := NewService(NewRepository(tx), testJWTConfig(), quietLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, badPassword := errorsFromLogin(t, svc, user.Email, "wrong password")
	_, unknownEmail := errorsFromLogin(t, svc, "nobody@example.com", "wrong password")

	if badPassword != unknownEmail {
		t.Fatalf("expected identical messages, got %q vs %q", badPassword, unknownEmail)
	}
}

func errorsFromLogin(t *testing.T, svc Service, email, password string) (pkgerrors.Code, string) {
	t.Helper()
	_, err := svc.Login(context.Background(), LoginInput{Email: email, Password: password})
	if err == nil {
		t.Fatal("expected login to fail")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", err)
	}
	return typed.Code(), typed.Message()
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	user := mustCreateTestUser(t, tx, "correct horse battery", false)

	svc, err := NewService(NewRepository(tx), testJWTConfig(), quietLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    user.Email,
		Password: "correct horse battery",
	})
	if err == nil {
		t.Fatal("expected login to fail for disabled account")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", err)
	}
}
