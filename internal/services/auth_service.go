package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"github.com/harube/kanban-board-api/internal/auth"
	mailer "github.com/harube/kanban-board-api/internal/mail"
	"github.com/harube/kanban-board-api/internal/models"
	"github.com/harube/kanban-board-api/internal/repository"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email address is invalid")
	ErrSignInTokenInvalid = errors.New("sign-in link is invalid or expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrMailDeliveryFailed = errors.New("failed to send sign-in email")
)

// AuthService implements magic-link sign-in: a requested link is emailed and
// verifying it establishes the session identity, creating the user on first
// sign-in.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenStore
	mailer   mailer.Mailer
	baseURL  string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenStore, m mailer.Mailer, baseURL string) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   m,
		baseURL:  baseURL,
	}
}

// RequestMagicLink issues a single-use token for the email and sends the
// sign-in link. It succeeds whether or not the address belongs to an existing
// user, so callers cannot probe for accounts.
func (s *AuthService) RequestMagicLink(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(ctx, normalized)
	if err != nil {
		return fmt.Errorf("failed to issue sign-in token: %w", err)
	}

	subject, body := mailer.MagicLinkEmail(s.baseURL, normalized, token)
	if err := s.mailer.Send(normalized, subject, body); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDeliveryFailed, err)
	}

	return nil
}

// VerifyMagicLink consumes the token and returns the signed-in user,
// creating the account on first sign-in.
func (s *AuthService) VerifyMagicLink(ctx context.Context, email, token string) (*models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Consume(ctx, normalized, token); err != nil {
		if errors.Is(err, auth.ErrTokenInvalid) {
			return nil, ErrSignInTokenInvalid
		}
		return nil, fmt.Errorf("failed to verify sign-in token: %w", err)
	}

	user, err := s.userRepo.FindByEmail(normalized)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user = &models.User{
		Email: normalized,
		Name:  nameFromEmail(normalized),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", ErrEmailRequired
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrEmailInvalid
	}
	return trimmed, nil
}

func nameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
