// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockrit/stockrit/internal/config"
	"github.com/stockrit/stockrit/internal/events"
	"github.com/stockrit/stockrit/internal/model"
	"github.com/stockrit/stockrit/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// AuthService handles registration, login and token generation.
type AuthService struct {
	userRepo *repository.UserRepository
	producer *events.Producer
	cfg      *config.Config
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo *repository.UserRepository, producer *events.Producer, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		producer: producer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Register creates a new account. Input checks run before any store
// access so each violation maps to its own error.
func (s *AuthService) Register(ctx context.Context, userCreate *model.UserCreate) (*model.TokenResponse, error) {
	if !emailPattern.MatchString(userCreate.Email) {
		return nil, model.ErrInvalidEmail
	}
	if err := checkPasswordStrength(userCreate.Password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUsername(ctx, userCreate.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup username: %v", model.ErrPersistenceFailure, err)
	}
	if existing != nil {
		return nil, model.ErrDuplicateUsername
	}

	existing, err = s.userRepo.GetByEmail(ctx, userCreate.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup email: %v", model.ErrPersistenceFailure, err)
	}
	if existing != nil {
		return nil, model.ErrDuplicateEmail
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(userCreate.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	userID, err := s.userRepo.Create(ctx, userCreate, string(hashedPassword))
	if err != nil {
		return nil, fmt.Errorf("%w: create user: %v", model.ErrPersistenceFailure, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, fmt.Errorf("%w: read back user %d: %v", model.ErrPersistenceFailure, userID, err)
	}

	accessToken, refreshToken, expiresAt, err := s.generateTokens(user.ID)
	if err != nil {
		return nil, err
	}

	evt := events.UserEvent{
		Type:     events.TypeUserRegistered,
		UserID:   user.ID,
		Username: user.Username,
		At:       time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.producer.Publish(ctx, s.cfg.Kafka.Topics["users"], user.Username, evt); err != nil {
			s.logger.Warn("failed to publish registration event", zap.Error(err))
		}
	}()

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         *user,
	}, nil
}

// Login authenticates by username and returns tokens. The failure is
// the same whether the username or the password was wrong.
func (s *AuthService) Login(ctx context.Context, login *model.UserLogin) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, login.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup username: %v", model.ErrPersistenceFailure, err)
	}
	if user == nil {
		return nil, model.ErrAuthenticationFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)); err != nil {
		s.logger.Debug("password verification failed", zap.String("username", login.Username))
		return nil, model.ErrAuthenticationFailed
	}

	accessToken, refreshToken, expiresAt, err := s.generateTokens(user.ID)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         *user,
	}, nil
}

// generateTokens creates a new pair of access and refresh tokens.
func (s *AuthService) generateTokens(userID int64) (accessToken, refreshToken string, expiresAt time.Time, err error) {
	accessExpiry := time.Now().Add(s.cfg.Auth.AccessTokenDuration)

	accessClaims := jwt.MapClaims{
		"sub":  userID,
		"exp":  accessExpiry.Unix(),
		"iat":  time.Now().Unix(),
		"type": "access",
	}

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessToken, err = access.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return "", "", time.Time{}, err
	}

	refreshExpiry := time.Now().Add(s.cfg.Auth.RefreshTokenDuration)
	refreshClaims := jwt.MapClaims{
		"sub":  userID,
		"exp":  refreshExpiry.Unix(),
		"iat":  time.Now().Unix(),
		"type": "refresh",
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshToken, err = refresh.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		s.logger.Error("failed to sign refresh token", zap.Error(err))
		return "", "", time.Time{}, err
	}

	return accessToken, refreshToken, accessExpiry, nil
}

// ValidateToken checks an access token and returns the user id it was
// issued for.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		return 0, errors.New("invalid token type")
	}

	userID, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("invalid user ID in token")
	}

	return int64(userID), nil
}

// checkPasswordStrength enforces the account password policy.
func checkPasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return model.ErrWeakPassword
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return model.ErrWeakPassword
	}
	return nil
}
