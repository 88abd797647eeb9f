package service

//go:generate mockgen -source=auth.go -destination=mocks/mock_auth.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/jalanguard/internal/models"
	"github.com/sirupsen/logrus"
)

// CredentialManager - хеширование паролей и выпуск токенов
type CredentialManager interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) bool
	CreateAccessToken(subject string) (string, error)
	CreateRefreshToken(subject string) (string, error)
	AccessTokenTTL() time.Duration
}

// AuthService определяет контракт регистрации и входа
type AuthService interface {
	Register(ctx context.Context, input models.RegisterInput) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type authService struct {
	repo        UserRepository
	credentials CredentialManager
	logger      *logrus.Logger
}

func NewAuthService(repo UserRepository, credentials CredentialManager, logger *logrus.Logger) AuthService {
	return &authService{
		repo:        repo,
		credentials: credentials,
		logger:      logger,
	}
}

// MaxPasswordBytes - предел bcrypt, считается в байтах, а не в символах
const MaxPasswordBytes = 72

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает пользователя и сразу выдает ему токены
func (s *authService) Register(ctx context.Context, input models.RegisterInput) (*models.AuthResult, error) {
	email := normalizeEmail(input.Email)
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Register",
		"email":   email,
	})
	log.Info("Attempting to register a new user")

	if len(input.Password) > MaxPasswordBytes {
		return nil, fmt.Errorf("service: password must be at most %d bytes: %w", MaxPasswordBytes, ErrInvalidInput)
	}
	firstName, lastName := strings.TrimSpace(input.FirstName), strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("service: first_name and last_name cannot be blank: %w", ErrInvalidInput)
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		log.Warn("Email is already registered")
		return nil, fmt.Errorf("service: could not register user: %w", ErrEmailTaken)
	}
	if !errors.Is(err, ErrNotFound) {
		log.WithError(err).Error("Failed to check email in repository")
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}

	hash, err := s.credentials.HashPassword(input.Password)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}

	user := &models.User{
		Email:          email,
		HashedPassword: hash,
		FirstName:      firstName,
		LastName:       lastName,
		PhoneNumber:    input.PhoneNumber,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// Гонка двух регистраций на один email ловится уникальным индексом
		log.WithError(err).Error("Failed to create user in repository")
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}

	tokens, err := s.issueTokens(user.ID)
	if err != nil {
		log.WithError(err).Error("Failed to issue tokens")
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return &models.AuthResult{User: user, Tokens: tokens}, nil
}

// Login проверяет учетные данные. Неизвестный email и неверный пароль дают одну и ту же ошибку
func (s *authService) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	email = normalizeEmail(email)
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Login",
		"email":   email,
	})
	log.Info("Attempting to log in")

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("Login failed")
			return nil, fmt.Errorf("service: %w", ErrInvalidCredentials)
		}
		log.WithError(err).Error("Failed to get user from repository")
		return nil, fmt.Errorf("service: could not log in: %w", err)
	}

	if !s.credentials.VerifyPassword(password, user.HashedPassword) || !user.IsActive {
		log.WithField("user_id", user.ID).Warn("Login failed")
		return nil, fmt.Errorf("service: %w", ErrInvalidCredentials)
	}

	tokens, err := s.issueTokens(user.ID)
	if err != nil {
		log.WithError(err).Error("Failed to issue tokens")
		return nil, fmt.Errorf("service: could not log in: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User logged in successfully")
	return &models.AuthResult{User: user, Tokens: tokens}, nil
}

// CurrentUser возвращает владельца токена; пользователь мог быть удален при живом токене
func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "CurrentUser",
		"user_id": userID,
	})

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Failed to get current user from repository")
		return nil, fmt.Errorf("service: could not get current user: %w", err)
	}
	return user, nil
}

func (s *authService) issueTokens(userID uuid.UUID) (models.TokenPair, error) {
	access, err := s.credentials.CreateAccessToken(userID.String())
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := s.credentials.CreateRefreshToken(userID.String())
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.credentials.AccessTokenTTL().Seconds()),
	}, nil
}
