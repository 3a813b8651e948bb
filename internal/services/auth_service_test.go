package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/edustack/lms-service/internal/cache"
	"github.com/edustack/lms-service/internal/models"
)

func newAuthFixture(t *testing.T) (AuthService, *mockRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newMockRepository()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	repo.user.users["u1"] = &models.User{
		ID:           "u1",
		FullName:     "Ada",
		Email:        "ada@example.com",
		Role:         models.RoleStudent,
		PasswordHash: string(hash),
	}

	sessions := cache.NewSessionStore(client, time.Hour)
	return NewAuthService(repo, sessions, "test-secret", time.Hour, testLogger()), repo
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}
	if resp.User.ID != "u1" {
		t.Errorf("user id = %s", resp.User.ID)
	}

	session, err := svc.Authenticate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if session.UserID != "u1" || session.Role != models.RoleStudent {
		t.Errorf("session = %+v", session)
	}
}

func TestAuthService_BadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ada@example.com", "wrong"},
		{"unknown email", "nobody@example.com", "correct horse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &LoginRequest{Email: tt.email, Password: tt.password})
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("got %v, want unauthorized", err)
			}
		})
	}
}

func TestAuthService_LogoutInvalidatesSession(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	// The JWT is still validly signed but there is no session behind it
	if _, err := svc.Authenticate(ctx, resp.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("got %v after logout, want unauthorized", err)
	}
}

func TestAuthService_GarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	if _, err := svc.Authenticate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("got %v, want unauthorized", err)
	}
}
