package service

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roomly/internal/errors"
	"roomly/internal/model"
	"roomly/internal/repository"
)

// UserService exposes user lookups for the API surface.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Notifications(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
}

type userService struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, notifications repository.NotificationRepository) UserService {
	return &userService{users: users, notifications: notifications}
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Notifications(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}
