package service

import (
	"context"
	"errors"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/testutil"
	"interview_prep_backend/internal/util"
	"testing"
	"time"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	return NewAuthService(repository.NewUserRepository(testutil.DB(t)), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	user := &model.User{Name: "Ada", Email: " Ada@Example.com ", Password: "correct-horse"}
	if err := s.Register(ctx, user); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "ada@example.com" || user.Password == "correct-horse" {
		t.Fatalf("user not normalized or password not hashed: %+v", user)
	}

	dup := &model.User{Name: "Ada", Email: "ada@example.com", Password: "another-pass"}
	if err := s.Register(ctx, dup); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("duplicate register error = %v", err)
	}

	token, logged, err := s.Login(ctx, "ADA@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := util.ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != logged.ID || claims.Email != "ada@example.com" {
		t.Fatalf("claims = %+v", claims)
	}

	got, err := s.GetUser(ctx, logged.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.LastLogin == nil {
		t.Fatalf("last login not recorded")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	if err := s.Register(ctx, &model.User{Name: "Bob", Email: "bob@example.com", Password: "password-1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, tc := range []struct{ email, password string }{
		{"bob@example.com", "wrong"},
		{"nobody@example.com", "password-1"},
	} {
		if _, _, err := s.Login(ctx, tc.email, tc.password); !errors.Is(err, util.ErrInvalidCredentials) {
			t.Fatalf("Login(%s) error = %v", tc.email, err)
		}
	}

	if _, err := s.GetUser(ctx, 999); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("GetUser error = %v", err)
	}
}
