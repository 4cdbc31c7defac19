package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-vault-api/internal/models"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
)

type sessionRepository interface {
	Get() (*models.Session, error)
	Set(session *models.Session) error
	Clear() error
}

// SessionConfig defines session lifetime policy.
type SessionConfig struct {
	MaxAge      time.Duration
	IdleTimeout time.Duration
}

// SessionService owns the singleton session slot. Expiry is lazy: an expired
// session is purged the first time it is read, never by a background sweep.
// The idle clock is tracked in memory only, so a process restart counts as
// fresh activity.
type SessionService struct {
	repo   sessionRepository
	logger *zap.Logger
	config SessionConfig

	mu       sync.Mutex
	lastSeen map[string]time.Time
	now      func() time.Time
}

// NewSessionService constructs a SessionService instance.
func NewSessionService(repo sessionRepository, logger *zap.Logger, config SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxAge <= 0 {
		config.MaxAge = 24 * time.Hour
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = 30 * time.Minute
	}
	return &SessionService{
		repo:     repo,
		logger:   logger,
		config:   config,
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Current returns the active session, or nil when nobody is logged in.
// Sessions past their absolute age or idle for too long are cleared here.
func (s *SessionService) Current() (*models.Session, error) {
	session, err := s.repo.Get()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read session")
	}
	if session == nil {
		return nil, nil
	}

	now := s.now()
	if session.Age(now) > s.config.MaxAge {
		s.logger.Info("session expired", zap.String("username", session.Username))
		s.expire(session.Username)
		return nil, nil
	}

	s.mu.Lock()
	last, tracked := s.lastSeen[session.Username]
	s.mu.Unlock()
	if tracked && now.Sub(last) > s.config.IdleTimeout {
		s.logger.Info("session idle timeout", zap.String("username", session.Username))
		s.expire(session.Username)
		return nil, nil
	}

	s.touch(session.Username, now)
	return session, nil
}

// Require returns the logged-in username or an authentication error.
func (s *SessionService) Require() (string, error) {
	session, err := s.Current()
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", appErrors.ErrAuthenticationRequired
	}
	return session.Username, nil
}

// Start replaces the session slot with a fresh session for username.
func (s *SessionService) Start(username string) (*models.Session, error) {
	session := &models.Session{Username: username, LoginTime: s.now()}
	if err := s.repo.Set(session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to persist session")
	}
	s.touch(username, session.LoginTime)
	return session, nil
}

// End clears the session slot. Ending an absent session is not an error.
func (s *SessionService) End() error {
	session, err := s.repo.Get()
	if err == nil && session != nil {
		s.forget(session.Username)
	}
	if err := s.repo.Clear(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to clear session")
	}
	return nil
}

func (s *SessionService) expire(username string) {
	s.forget(username)
	if err := s.repo.Clear(); err != nil {
		s.logger.Warn("failed to clear expired session", zap.Error(err))
	}
}

func (s *SessionService) touch(username string, now time.Time) {
	s.mu.Lock()
	s.lastSeen[username] = now
	s.mu.Unlock()
}

func (s *SessionService) forget(username string) {
	s.mu.Lock()
	delete(s.lastSeen, username)
	s.mu.Unlock()
}
