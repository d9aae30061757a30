package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/observability"
	"github.com/ornithedex/server/internal/repository"
)

// AuthService handles registration, login and session lifecycle
type AuthService struct {
	userRepo    repository.UserRepo
	sessionRepo repository.SessionRepo
	statsRepo   repository.StatsRepo
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepo, sessionRepo repository.SessionRepo, statsRepo repository.StatsRepo) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		statsRepo:   statsRepo,
	}
}

// Register creates an account and opens a session for it
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, *models.Session, error) {
	user, err := models.NewUser(username, password)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if err == models.ErrUsernameTaken {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	session := models.NewSession(user.ID)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	if err := s.statsRepo.Record(ctx, user.ID, "register", ""); err != nil {
		observability.Warnf("audit record failed: %v", err)
	}

	observability.GetBusinessMetrics().RecordAuthAttempt(ctx, "register", true)

	return user, session, nil
}

// Login verifies credentials and opens a session
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *models.Session, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !user.VerifyPassword(password) {
		observability.GetBusinessMetrics().RecordAuthAttempt(ctx, "login", false)
		return nil, nil, models.ErrBadCredentials
	}

	session := models.NewSession(user.ID)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	observability.GetBusinessMetrics().RecordAuthAttempt(ctx, "login", true)

	return user, session, nil
}

// Logout closes the session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	if session == nil {
		return models.ErrSessionNotFound
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

// UpdateTheme changes the user's display theme
func (s *AuthService) UpdateTheme(ctx context.Context, userID, theme string) error {
	if !models.ValidThemes[theme] {
		return models.ErrInvalidTheme
	}
	return s.userRepo.UpdateTheme(ctx, userID, theme)
}

// StartSessionCleanup periodically removes expired sessions until the
// context is cancelled
func (s *AuthService) StartSessionCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.sessionRepo.DeleteExpired(ctx)
			if err != nil {
				observability.Warnf("session cleanup failed: %v", err)
			} else if removed > 0 {
				observability.Debugf("removed %d expired sessions", removed)
			}
		}
	}
}
