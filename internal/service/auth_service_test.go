package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-vault-api/internal/kv"
	"github.com/noah-isme/school-vault-api/internal/models"
	"github.com/noah-isme/school-vault-api/internal/repository"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
	"github.com/noah-isme/school-vault-api/pkg/ratelimit"
)

func newAuthStack(t *testing.T) (*AuthService, *SessionService) {
	t.Helper()
	store := kv.NewMemoryStore()
	sessions := NewSessionService(repository.NewSessionRepository(store), nil, SessionConfig{})
	limiter := ratelimit.New(5, 15*time.Minute, time.Hour)
	auth := NewAuthService(repository.NewCredentialRepository(store), sessions, limiter, LegacyHasher{}, nil, nil)
	return auth, sessions
}

func TestRegisterLogsInImmediately(t *testing.T) {
	auth, sessions := newAuthStack(t)

	session, err := auth.Register(models.RegisterRequest{Username: "teacher1", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "teacher1", session.Username)

	current, err := sessions.Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "teacher1", current.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	auth, _ := newAuthStack(t)

	_, err := auth.Register(models.RegisterRequest{Username: "teacher1", Password: "secret1"})
	require.NoError(t, err)

	_, err = auth.Register(models.RegisterRequest{Username: "teacher1", Password: "other-pass"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadyExists))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	auth, _ := newAuthStack(t)

	_, err := auth.Register(models.RegisterRequest{Username: "teacher1", Password: "abc"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestLoginWrongPassword(t *testing.T) {
	auth, _ := newAuthStack(t)

	_, err := auth.Register(models.RegisterRequest{Username: "teacher1", Password: "secret1"})
	require.NoError(t, err)

	_, err = auth.Login(models.LoginRequest{Username: "teacher1", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestLoginUnknownUserSameError(t *testing.T) {
	auth, _ := newAuthStack(t)

	_, err := auth.Login(models.LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestLoginRateLimitBlocksSixthAttempt(t *testing.T) {
	auth, _ := newAuthStack(t)

	_, err := auth.Register(models.RegisterRequest{Username: "teacher1", Password: "secret1"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := auth.Login(models.LoginRequest{Username: "teacher1", Password: "wrong"})
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials), "attempt %d", i+1)
	}

	// Even the correct password is refused while blocked.
	_, err = auth.Login(models.LoginRequest{Username: "teacher1", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrRateLimited))
}

func TestLoginSuccessResetsLimiter(t *testing.T) {
	auth, _ := newAuthStack(t)

	_, err := auth.Register(models.RegisterRequest{Username: "teacher1", Password: "secret1"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _ = auth.Login(models.LoginRequest{Username: "teacher1", Password: "wrong"})
	}
	_, err = auth.Login(models.LoginRequest{Username: "teacher1", Password: "secret1"})
	require.NoError(t, err)

	// A fresh streak of failures is allowed again after the reset.
	for i := 0; i < 4; i++ {
		_, err := auth.Login(models.LoginRequest{Username: "teacher1", Password: "wrong"})
		assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials), "attempt %d", i+1)
	}
}

func TestLegacyHasherDeterministic(t *testing.T) {
	hasher := LegacyHasher{}

	hash, err := hasher.Hash("abc")
	require.NoError(t, err)
	assert.Equal(t, "96354", hash)

	assert.True(t, hasher.Compare(hash, "abc"))
	assert.False(t, hasher.Compare(hash, "abd"))
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := BcryptHasher{Cost: 4}

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, hasher.Compare(hash, "secret1"))
	assert.False(t, hasher.Compare(hash, "secret2"))
}
