package service

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-vault-api/internal/models"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
	"github.com/noah-isme/school-vault-api/pkg/ratelimit"
)

type credentialRepository interface {
	Hash(username string) (string, bool, error)
	Store(username, hash string) error
}

// AuthService handles registration and login against the credential map.
// Login attempts are counted before the password is checked, so probing a
// username costs an attempt whether or not the password is right.
type AuthService struct {
	repo      credentialRepository
	sessions  *SessionService
	limiter   *ratelimit.Limiter
	hasher    Hasher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo credentialRepository, sessions *SessionService, limiter *ratelimit.Limiter, hasher Hasher, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = LegacyHasher{}
	}
	return &AuthService{repo: repo, sessions: sessions, limiter: limiter, hasher: hasher, validator: validate, logger: logger}
}

// Register creates a new account and logs it in immediately.
func (s *AuthService) Register(req models.RegisterRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	_, exists, err := s.repo.Hash(req.Username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read credentials")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrAlreadyExists, "username already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	if err := s.repo.Store(req.Username, hash); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to persist credentials")
	}

	s.logger.Info("account registered", zap.String("username", req.Username))
	return s.sessions.Start(req.Username)
}

// Login verifies credentials and replaces the session slot on success.
func (s *AuthService) Login(req models.LoginRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	if s.limiter != nil && s.limiter.Attempt(req.Username) {
		s.logger.Warn("login blocked by rate limiter", zap.String("username", req.Username))
		return nil, appErrors.Clone(appErrors.ErrRateLimited, "too many failed attempts, try again later")
	}

	hash, exists, err := s.repo.Hash(req.Username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read credentials")
	}
	if !exists || !s.hasher.Compare(hash, req.Password) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	if s.limiter != nil {
		s.limiter.Reset(req.Username)
	}
	s.logger.Info("login succeeded", zap.String("username", req.Username))
	return s.sessions.Start(req.Username)
}

// Logout ends the current session.
func (s *AuthService) Logout() error {
	return s.sessions.End()
}
