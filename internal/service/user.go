package service

import (
	"context"
	"log/slog"

	"studyflow/internal/domain/models"
	"studyflow/internal/domain/repositories"
)

// UserService manages account rows for authenticated identities.
type UserService interface {
	// EnsureUser finds or creates the account for an external identity
	// subject. Called on every login.
	EnsureUser(ctx context.Context, externalUID, email string) (*models.User, error)

	// GetUser looks up an existing account. Returns domain.ErrNotFound
	// if the identity has never called EnsureUser.
	GetUser(ctx context.Context, externalUID string) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, logger *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) EnsureUser(ctx context.Context, externalUID, email string) (*models.User, error) {
	user, err := s.userRepo.FindOrCreate(ctx, externalUID, email)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("user ensured", "user_id", user.ID)
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, externalUID string) (*models.User, error) {
	return s.userRepo.GetByExternalUID(ctx, externalUID)
}
