package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"thread-backend/models"
	"thread-backend/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	PhotoURL string
}

// AuthService handles registration, login and identity lookups.
type AuthService interface {
	Register(ctx context.Context, in *RegisterInput) (*models.User, string, *ServiceError)
	Login(ctx context.Context, email, password string) (*models.User, string, *ServiceError)
	CurrentUser(ctx context.Context, email string) (*models.User, *ServiceError)
}

type authServiceImpl struct {
	users  repository.UserRepository
	tokens *TokenService
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, logger *zap.Logger) AuthService {
	return &authServiceImpl{users: users, tokens: tokens, logger: logger}
}

// Register creates a user with role "user" and returns it with a fresh token.
// The supplied password is stored only as a bcrypt hash.
func (s *authServiceImpl) Register(ctx context.Context, in *RegisterInput) (*models.User, string, *ServiceError) {
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, "", &ServiceError{StatusCode: http.StatusConflict, Message: "User already exists"}
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create account"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create account"}
	}

	user := &models.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hashed),
		PhotoURL:  in.PhotoURL,
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		// The unique email index closes the find-then-insert window under
		// concurrent registrations.
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", &ServiceError{StatusCode: http.StatusConflict, Message: "User already exists"}
		}
		s.logger.Error("Failed to insert user", zap.Error(err))
		return nil, "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create account"}
	}
	user.ID = id

	token, err := s.tokens.Issue(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return nil, "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to generate token"}
	}

	s.logger.Info("User registered", zap.String("email", user.Email))
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*models.User, string, *ServiceError) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", &ServiceError{StatusCode: http.StatusNotFound, Message: "User not found"}
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Login failed"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	}

	token, err := s.tokens.Issue(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return nil, "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to generate token"}
	}

	return user, token, nil
}

// CurrentUser resolves the authenticated caller's profile.
func (s *authServiceImpl) CurrentUser(ctx context.Context, email string) (*models.User, *ServiceError) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "User not found"}
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load user"}
	}
	return user, nil
}
