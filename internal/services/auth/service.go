package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	"github.com/lazyvar/cliffhanger-club/internal/pkg/validate"
)

const (
	MinSessionTTL = time.Hour
	MaxSessionTTL = 30 * 24 * time.Hour
)

type UserStore interface {
	FindByCredentials(ctx context.Context, username, digest string) (model.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	// FindUser resolves a token to its owner, treating expired rows as absent.
	FindUser(ctx context.Context, token string) (model.User, error)
	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type Service struct {
	users      UserStore
	sessions   SessionStore
	sessionTTL time.Duration
	now        func() time.Time
}

func NewService(users UserStore, sessions SessionStore, sessionTTL time.Duration) *Service {
	if sessionTTL < MinSessionTTL {
		sessionTTL = MinSessionTTL
	}
	if sessionTTL > MaxSessionTTL {
		sessionTTL = MaxSessionTTL
	}

	return &Service{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// SessionTTL is the single source for both row expiry and cookie max-age.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Login verifies credentials and issues a fresh session token.
func (s *Service) Login(ctx context.Context, username, password string) (model.User, string, error) {
	username = validate.Username(username)
	if !validate.Required(username) || password == "" {
		return model.User{}, "", ErrMissingCredentials
	}

	user, err := s.users.FindByCredentials(ctx, username, HashPassword(username, password))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return model.User{}, "", ErrInvalidCredentials
		}
		return model.User{}, "", fmt.Errorf("find user by credentials: %w", err)
	}

	token, err := NewSessionToken()
	if err != nil {
		return model.User{}, "", fmt.Errorf("generate session token: %w", err)
	}

	if err := s.sessions.Create(ctx, token, user.ID, s.now().Add(s.sessionTTL)); err != nil {
		return model.User{}, "", fmt.Errorf("create session: %w", err)
	}

	return user, token, nil
}

// Resolve maps a bearer token to its owning member. Expired and unknown
// tokens are indistinguishable to the caller.
func (s *Service) Resolve(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, ErrSessionNotFound
	}

	user, err := s.sessions.FindUser(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return model.User{}, ErrSessionNotFound
		}
		return model.User{}, fmt.Errorf("resolve session: %w", err)
	}

	return user, nil
}

// Logout revokes the session unconditionally; unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Sweep physically removes expired session rows. Valid sessions are never
// touched, so it is safe to run at any time, any number of times.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	deleted, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return deleted, nil
}
