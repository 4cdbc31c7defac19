package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/school-vault-api/internal/kv"
)

// CredentialRepository persists the global username -> password hash map.
// Entries are created once and never updated or deleted.
type CredentialRepository struct {
	store kv.Store
}

// NewCredentialRepository constructs a credential repository.
func NewCredentialRepository(store kv.Store) *CredentialRepository {
	return &CredentialRepository{store: store}
}

// Hash returns the stored hash for a username and whether it exists.
func (r *CredentialRepository) Hash(username string) (string, bool, error) {
	users, err := r.load()
	if err != nil {
		return "", false, err
	}
	hash, ok := users[username]
	return hash, ok, nil
}

// Store records the hash for a new username, merging into the existing map.
func (r *CredentialRepository) Store(username, hash string) error {
	users, err := r.load()
	if err != nil {
		return err
	}
	users[username] = hash

	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := r.store.Set(credentialsKey, string(raw)); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (r *CredentialRepository) load() (map[string]string, error) {
	raw, err := r.store.Get(credentialsKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	users := make(map[string]string)
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return users, nil
}
