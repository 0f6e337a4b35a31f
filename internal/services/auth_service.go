package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
)

// TokenIssuer creates a signed credential for a verified user.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

type AuthService struct {
	userRepo domain.UserRepository
	issuer   TokenIssuer
	log      logger.Logger
}

func NewAuthService(userRepo domain.UserRepository, issuer TokenIssuer, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		log:      log,
	}
}

// Login verifies the email/password pair and returns a fresh access token.
// The same ErrInvalidCredentials comes back for a missing user and a wrong
// password, so the response doesn't leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, domain.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.log.Warn("Failed to update last login", "user_id", user.ID, "error", err)
	}

	s.log.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return token, user, nil
}
