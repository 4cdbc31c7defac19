package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/school-vault-api/internal/kv"
	"github.com/noah-isme/school-vault-api/internal/models"
)

// MarksRepository persists each user's marks book as nested JSON under
// marks_<username>: studentId -> term -> subject -> marks.
type MarksRepository struct {
	store kv.Store
}

// NewMarksRepository constructs a marks repository.
func NewMarksRepository(store kv.Store) *MarksRepository {
	return &MarksRepository{store: store}
}

// Book returns the user's marks book. A missing key is an empty book.
func (r *MarksRepository) Book(username string) (models.MarksBook, error) {
	raw, err := r.store.Get(MarksKey(username))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return models.MarksBook{}, nil
		}
		return nil, fmt.Errorf("read marks: %w", err)
	}

	book := models.MarksBook{}
	if err := json.Unmarshal([]byte(raw), &book); err != nil {
		return nil, fmt.Errorf("parse marks: %w", err)
	}
	return book, nil
}

// Merge overlays whole student entries onto the stored book. The merge is
// shallow by student: a student present in the payload replaces that
// student's entire entry, students absent from the payload are preserved.
func (r *MarksRepository) Merge(username string, entries models.MarksBook) error {
	book, err := r.Book(username)
	if err != nil {
		return err
	}
	for studentID, terms := range entries {
		book[studentID] = terms
	}

	raw, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("encode marks: %w", err)
	}
	if err := r.store.Set(MarksKey(username), string(raw)); err != nil {
		return fmt.Errorf("write marks: %w", err)
	}
	return nil
}

// Clear removes the user's marks book.
func (r *MarksRepository) Clear(username string) error {
	if err := r.store.Delete(MarksKey(username)); err != nil {
		return fmt.Errorf("clear marks: %w", err)
	}
	return nil
}
