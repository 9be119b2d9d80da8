// Package services contains the server-side business logic: accounts, the
// encrypted AI key, and the symptom diary.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/gastrohealth/internal/common"
	"github.com/dmitrijs2005/gastrohealth/internal/cryptox"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
	"github.com/dmitrijs2005/gastrohealth/internal/server/auth"
	"github.com/dmitrijs2005/gastrohealth/internal/server/config"
	srv "github.com/dmitrijs2005/gastrohealth/internal/server/models"
	"github.com/dmitrijs2005/gastrohealth/internal/server/repositories/repomanager"
)

// apiKeyInfo separates the stored-key encryption key from other uses of the
// server secret.
const apiKeyInfo = "gastrohealth/api-key/v1"

// Session is what a successful login or token check hands back.
type Session struct {
	Token    string
	User     *models.User
	Symptoms []models.SymptomLog
}

// UserService handles registration, login, token checks and the per-user
// settings (profile and AI key).
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	keyEncKey     []byte
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) (*UserService, error) {
	key, err := cryptox.DeriveKey([]byte(cfg.SecretKey), apiKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("derive api key encryption key: %w", err)
	}
	return &UserService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		keyEncKey:     key,
	}, nil
}

// Register creates an account. A malformed email or an empty password is a
// validation error; a taken email is common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &srv.User{Email: email, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u.Public(), nil
}

// Login checks the credentials and returns a fresh token with the account
// snapshot. Unknown emails and wrong passwords are indistinguishable.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if err := cryptox.CheckPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	list, err := s.repomanager.Symptoms(s.db).ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return &Session{Token: token, User: user.Public(), Symptoms: list}, nil
}

// Authenticate resolves a bearer token to its user id.
func (s *UserService) Authenticate(token string) (string, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// Me returns the account snapshot. A token whose account no longer exists is
// unauthorized.
func (s *UserService) Me(ctx context.Context, userID string) (*Session, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	list, err := s.repomanager.Symptoms(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return &Session{User: user.Public(), Symptoms: list}, nil
}

// Profile returns the stored onboarding profile, nil when none was saved.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Profile, nil
}

func (s *UserService) SaveProfile(ctx context.Context, userID string, profile *models.UserProfile) (*models.UserProfile, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: profile is required", common.ErrorValidation)
	}
	if err := s.repomanager.Users(s.db).UpdateProfile(ctx, userID, profile); err != nil {
		return nil, s.mapUserErr(err)
	}
	return profile, nil
}

// SaveAPIKey stores the caller's model key encrypted with AES-GCM.
func (s *UserService) SaveAPIKey(ctx context.Context, userID, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("%w: apiKey is required", common.ErrorValidation)
	}

	cipher, nonce, err := cryptox.Seal([]byte(apiKey), s.keyEncKey)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if err := s.repomanager.Users(s.db).UpdateAPIKey(ctx, userID, cipher, nonce); err != nil {
		return s.mapUserErr(err)
	}
	return nil
}

// APIKey decrypts the caller's model key. Users without one get
// common.ErrorNoAPIKey.
func (s *UserService) APIKey(ctx context.Context, userID string) (string, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.HasAPIKey() {
		return "", common.ErrorNoAPIKey
	}

	plain, err := cryptox.Open(user.APIKeyCipher, user.APIKeyNonce, s.keyEncKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	defer common.WipeByteArray(plain)

	return string(plain), nil
}

func (s *UserService) user(ctx context.Context, userID string) (*srv.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, s.mapUserErr(err)
	}
	return user, nil
}

func (s *UserService) mapUserErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUnauthorized
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	return nil
}
