package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/pkg/apperrors"
	"github.com/dogworld/backend/pkg/auth"
	"github.com/dogworld/backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid email or password"

// TokenIssuer issues and verifies the JWT pair handed out at login.
type TokenIssuer interface {
	GenerateTokenPair(userID, email, role string) (*auth.TokenPair, error)
	ValidateToken(tokenStr, expectedType string) (*auth.Claims, error)
}

type AuthService interface {
	Register(ctx context.Context, role string, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, role string, req *models.LoginRequest) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer, logger *zap.Logger) AuthService {
	return &authService{users: users, tokens: tokens, logger: logger}
}

func (s *authService) Register(ctx context.Context, role string, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if role != models.UserTypeUser && role != models.UserTypeSeller {
		return nil, apperrors.Validation("Invalid user type")
	}
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("Email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check email", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashed),
		Contact:   req.Contact,
		UserType:  role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Email already registered")
		}
		return nil, apperrors.Internal("Failed to create account", err)
	}

	s.logger.Info("Account registered", zap.String("user_id", user.ID.Hex()), zap.String("user_type", role))
	return s.issue(user.ID, user.Email, role, "Registration successful")
}

func (s *authService) Login(ctx context.Context, role string, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to look up account", err)
	}
	if user.UserType != role {
		return nil, apperrors.Unauthorized(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.logger.Debug("Password mismatch", zap.String("user_id", user.ID.Hex()))
		return nil, apperrors.Unauthorized(invalidCredentials)
	}
	return s.issue(user.ID, user.Email, user.UserType, "Login successful")
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.Validation("refreshToken is required")
	}
	claims, err := s.tokens.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}
	oid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}
	user, err := s.users.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized("Account no longer exists")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to look up account", err)
	}
	return s.issue(user.ID, user.Email, user.UserType, "Token refreshed")
}

func (s *authService) issue(id primitive.ObjectID, email, role, message string) (*models.AuthResponse, error) {
	pair, err := s.tokens.GenerateTokenPair(id.Hex(), email, role)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	return &models.AuthResponse{
		Success:      true,
		Message:      message,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserType:     role,
	}, nil
}
