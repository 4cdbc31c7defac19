package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/school-vault-api/internal/kv"
	"github.com/noah-isme/school-vault-api/internal/models"
)

// SessionRepository persists the singleton session slot.
type SessionRepository struct {
	store kv.Store
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(store kv.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Get reads the session slot. Missing or malformed content fails soft with
// (nil, nil) so a corrupted slot behaves like being logged out.
func (r *SessionRepository) Get() (*models.Session, error) {
	raw, err := r.store.Get(sessionKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, nil
	}
	if session.Username == "" {
		return nil, nil
	}
	return &session, nil
}

// Set replaces the session slot.
func (r *SessionRepository) Set(session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.store.Set(sessionKey, string(raw)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear deletes the session slot.
func (r *SessionRepository) Clear() error {
	if err := r.store.Delete(sessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
