package service

//go:generate mockgen -source=user.go -destination=mocks/mock_user.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/jalanguard/internal/models"
	"github.com/sirupsen/logrus"
)

// UserRepository определяет контракт для работы с бд пользователей
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserService определяет контракт для работы с профилем
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch models.UserPatch) (*models.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo   UserRepository
	logger *logrus.Logger
}

func NewUserService(repo UserRepository, logger *logrus.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

// GetUser получает пользователя по ID
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "GetUser",
		"user_id": id,
	})
	log.Info("Fetching user by ID")

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get user in repository")
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	return user, nil
}

// UpdateProfile применяет только переданные поля
func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, patch models.UserPatch) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "UpdateProfile",
		"user_id": id,
	})
	log.Info("Attempting to update profile")

	if (patch.FirstName.Set && patch.FirstName.Null) || (patch.LastName.Set && patch.LastName.Null) {
		return nil, fmt.Errorf("service: first_name and last_name cannot be null: %w", ErrInvalidInput)
	}
	if (patch.FirstName.Present() && strings.TrimSpace(patch.FirstName.Value) == "") ||
		(patch.LastName.Present() && strings.TrimSpace(patch.LastName.Value) == "") {
		return nil, fmt.Errorf("service: first_name and last_name cannot be blank: %w", ErrInvalidInput)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent user")
		return nil, fmt.Errorf("service: user with id %s not found for update: %w", id, err)
	}

	if patch.IsEmpty() {
		return user, nil
	}

	if patch.FirstName.Present() {
		user.FirstName = strings.TrimSpace(patch.FirstName.Value)
	}
	if patch.LastName.Present() {
		user.LastName = strings.TrimSpace(patch.LastName.Value)
	}
	if patch.PhoneNumber.Set {
		user.PhoneNumber = patch.PhoneNumber.Ptr()
	}

	if err := s.repo.Update(ctx, user); err != nil {
		log.WithError(err).Error("Failed to update user in repository")
		return nil, fmt.Errorf("service: could not update user: %w", err)
	}

	log.Info("Profile updated successfully")
	return user, nil
}

// DeleteAccount удаляет пользователя; его заявки и фото удаляются каскадно на уровне бд
func (s *userService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "DeleteAccount",
		"user_id": id,
	})
	log.Info("Attempting to delete account")

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to delete user in repository")
		return fmt.Errorf("service: could not delete user: %w", err)
	}

	log.Info("Account deleted successfully")
	return nil
}
