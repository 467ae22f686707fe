package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/course-service/internal/auth"
	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

type authService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	jwtService *auth.JWTService
	revocation *auth.RevocationStore
	publisher  events.EventPublisher
}

func NewAuthService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	jwtService *auth.JWTService,
	revocation *auth.RevocationStore,
	publisher events.EventPublisher,
) AuthService {
	return &authService{
		repo:       repo,
		logger:     logger,
		validator:  validator,
		jwtService: jwtService,
		revocation: revocation,
		publisher:  publisher,
	}
}

// Register creates the User row and its role profile. Both writes run in one
// transaction: a profile insert failure rolls the User back, so a User can
// never exist without its role profile.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	s.logger.Info("Registering user", "email", req.Email, "role", req.Role)

	if errs := s.validator.GetBusinessValidator().ValidateRegister(req); len(errs) > 0 {
		return nil, errs
	}

	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, nil, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	if req.Username != nil {
		taken, err := s.repo.User().ExistsByUsername(ctx, nil, *req.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, ErrDuplicateUsername
		}
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Username:     req.Username,
		Role:         req.Role,
		Name:         req.Name,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Create(ctx, nil, user); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		switch req.Role {
		case models.RoleTeacher:
			if err := txRepo.Teacher().Create(ctx, nil, &models.Teacher{UserID: user.ID}); err != nil {
				return fmt.Errorf("failed to create teacher profile: %w", err)
			}
		case models.RoleStudent:
			if err := txRepo.Student().Create(ctx, nil, &models.Student{UserID: user.ID}); err != nil {
				return fmt.Errorf("failed to create student profile: %w", err)
			}
		}

		return recordActivity(ctx, txRepo, user.ID, models.ActivityUserRegistered, map[string]interface{}{
			"email": user.Email,
			"role":  user.Role,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventUserRegistered, events.UserRegisteredEvent{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	}))

	s.logger.Info("User registered successfully", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login checks credentials and issues a session token. Absent user and wrong
// password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, _, expiresAt, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)

	return &AuthResponse{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the token's jti until its natural expiry.
func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.revocation.Revoke(ctx, jti, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *authService) publishEvent(ctx context.Context, event *events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

// recordActivity writes an activity entry inside the caller's transaction.
func recordActivity(ctx context.Context, repo repositories.Repository, userID uint, action models.ActivityAction, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal activity payload: %w", err)
	}

	entry := &models.ActivityLog{
		UserID:  userID,
		Action:  action,
		Payload: data,
	}
	if err := repo.Activity().Create(ctx, nil, entry); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}
