package services

import (
	"context"
	"net/http"

	"thread-backend/models"
	"thread-backend/repository"

	"go.uber.org/zap"
)

// UserService serves the admin-facing user queries.
type UserService interface {
	ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, *ServiceError)
	CountUsers(ctx context.Context) (int64, *ServiceError)
	SignupStats(ctx context.Context) ([]models.MonthlySignups, *ServiceError)
}

type userServiceImpl struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{users: users, logger: logger}
}

func (s *userServiceImpl) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, *ServiceError) {
	total, err := s.users.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to list users"}
	}

	users, err := s.users.FindPage(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to list users"}
	}
	return users, total, nil
}

func (s *userServiceImpl) CountUsers(ctx context.Context) (int64, *ServiceError) {
	total, err := s.users.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return 0, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to count users"}
	}
	return total, nil
}

func (s *userServiceImpl) SignupStats(ctx context.Context) ([]models.MonthlySignups, *ServiceError) {
	stats, err := s.users.MonthlySignups(ctx)
	if err != nil {
		s.logger.Error("Failed to aggregate signups", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load signup stats"}
	}
	return stats, nil
}
