package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/school-vault-api/internal/kv"
	"github.com/noah-isme/school-vault-api/internal/models"
)

// StudentRepository persists each user's student roster as a single JSON
// array under students_<username>. Reads and writes are whole-collection;
// upsert logic lives in the service layer.
type StudentRepository struct {
	store kv.Store
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(store kv.Store) *StudentRepository {
	return &StudentRepository{store: store}
}

// List returns the roster for a user. A missing key is an empty roster.
func (r *StudentRepository) List(username string) ([]models.Student, error) {
	raw, err := r.store.Get(StudentsKey(username))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []models.Student{}, nil
		}
		return nil, fmt.Errorf("read students: %w", err)
	}

	var students []models.Student
	if err := json.Unmarshal([]byte(raw), &students); err != nil {
		return nil, fmt.Errorf("parse students: %w", err)
	}
	return students, nil
}

// Replace overwrites the user's entire roster.
func (r *StudentRepository) Replace(username string, students []models.Student) error {
	raw, err := json.Marshal(students)
	if err != nil {
		return fmt.Errorf("encode students: %w", err)
	}
	if err := r.store.Set(StudentsKey(username), string(raw)); err != nil {
		return fmt.Errorf("write students: %w", err)
	}
	return nil
}

// Clear removes the user's roster.
func (r *StudentRepository) Clear(username string) error {
	if err := r.store.Delete(StudentsKey(username)); err != nil {
		return fmt.Errorf("clear students: %w", err)
	}
	return nil
}
