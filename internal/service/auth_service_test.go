package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/stockrit/stockrit/internal/config"
	"github.com/stockrit/stockrit/internal/model"
	"github.com/stockrit/stockrit/internal/repository"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := repository.EnsureSchema(db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 168 * time.Hour,
		},
		Market: config.MarketConfig{
			PopularSymbols: []string{"AAPL", "MSFT", "GOOGL"},
			DefaultPeriod:  "1y",
		},
		Kafka: config.KafkaConfig{
			Topics: map[string]string{
				"users":     "user-events",
				"favorites": "favorite-events",
			},
		},
	}
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := testDB(t)
	repo := repository.NewUserRepository(db, zap.NewNop())
	return NewAuthService(repo, nil, testConfig(), zap.NewNop())
}

func register(t *testing.T, s *AuthService, username, email, password string) *model.TokenResponse {
	t.Helper()
	resp, err := s.Register(context.Background(), &model.UserCreate{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return resp
}

func TestAuthService_RegisterIssuesTokens(t *testing.T) {
	s := newAuthService(t)

	resp := register(t, s, "alice", "alice@example.com", "Str0ngpass")
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("tokens not issued")
	}
	if resp.User.ID <= 0 || resp.User.Username != "alice" {
		t.Errorf("user: got %+v", resp.User)
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Errorf("expiry in the past: %v", resp.ExpiresAt)
	}

	userID, err := s.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != resp.User.ID {
		t.Errorf("token subject: got %d, want %d", userID, resp.User.ID)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	s := newAuthService(t)
	register(t, s, "alice", "alice@example.com", "Str0ngpass")

	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"malformed email", "bob", "not-an-email", "Str0ngpass", model.ErrInvalidEmail},
		{"email without tld", "bob", "bob@host", "Str0ngpass", model.ErrInvalidEmail},
		{"short password", "bob", "bob@example.com", "Ab1", model.ErrWeakPassword},
		{"no uppercase", "bob", "bob@example.com", "weakpass1", model.ErrWeakPassword},
		{"no lowercase", "bob", "bob@example.com", "WEAKPASS1", model.ErrWeakPassword},
		{"no digit", "bob", "bob@example.com", "Weakpassword", model.ErrWeakPassword},
		{"taken username", "alice", "new@example.com", "Str0ngpass", model.ErrDuplicateUsername},
		{"taken email", "bob", "alice@example.com", "Str0ngpass", model.ErrDuplicateEmail},
		// Input shape is checked before uniqueness.
		{"bad email beats taken username", "alice", "not-an-email", "Str0ngpass", model.ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), &model.UserCreate{
				Username: tt.username,
				Email:    tt.email,
				Password: tt.password,
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	s := newAuthService(t)
	register(t, s, "alice", "alice@example.com", "Str0ngpass")

	resp, err := s.Login(context.Background(), &model.UserLogin{
		Username: "alice",
		Password: "Str0ngpass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.User.Username != "alice" {
		t.Errorf("response: %+v", resp)
	}

	_, err = s.Login(context.Background(), &model.UserLogin{
		Username: "alice",
		Password: "WrongPass1",
	})
	if !errors.Is(err, model.ErrAuthenticationFailed) {
		t.Errorf("wrong password: got %v, want ErrAuthenticationFailed", err)
	}

	_, err = s.Login(context.Background(), &model.UserLogin{
		Username: "mallory",
		Password: "Str0ngpass",
	})
	if !errors.Is(err, model.ErrAuthenticationFailed) {
		t.Errorf("unknown user: got %v, want ErrAuthenticationFailed", err)
	}
}

func TestAuthService_ValidateTokenRejections(t *testing.T) {
	s := newAuthService(t)
	resp := register(t, s, "alice", "alice@example.com", "Str0ngpass")

	if _, err := s.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}

	// Refresh tokens must not pass access validation.
	if _, err := s.ValidateToken(resp.RefreshToken); err == nil {
		t.Error("refresh token accepted as access token")
	}

	// A token signed with a different secret is rejected.
	other := NewAuthService(nil, nil, &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:           "other-secret",
			AccessTokenDuration: 15 * time.Minute,
		},
	}, zap.NewNop())
	foreign, _, _, err := other.generateTokens(resp.User.ID)
	if err != nil {
		t.Fatalf("sign foreign token: %v", err)
	}
	if _, err := s.ValidateToken(foreign); err == nil {
		t.Error("foreign token accepted")
	}

	// An expired token is rejected.
	expiredCfg := testConfig()
	expiredCfg.Auth.AccessTokenDuration = -time.Minute
	expired := NewAuthService(nil, nil, expiredCfg, zap.NewNop())
	stale, _, _, err := expired.generateTokens(resp.User.ID)
	if err != nil {
		t.Fatalf("sign stale token: %v", err)
	}
	if _, err := s.ValidateToken(stale); err == nil {
		t.Error("expired token accepted")
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"Str0ngpass", true},
		{"Aa1aaaaa", true},
		{"Ab1", false},
		{"abcdefg1", false},
		{"ABCDEFG1", false},
		{"Abcdefgh", false},
		{"", false},
	}
	for _, tt := range tests {
		err := checkPasswordStrength(tt.password)
		if tt.ok && err != nil {
			t.Errorf("%q: unexpected error %v", tt.password, err)
		}
		if !tt.ok && !errors.Is(err, model.ErrWeakPassword) {
			t.Errorf("%q: got %v, want ErrWeakPassword", tt.password, err)
		}
	}
}
