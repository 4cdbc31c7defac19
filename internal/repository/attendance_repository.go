package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/school-vault-api/internal/kv"
	"github.com/noah-isme/school-vault-api/internal/models"
)

// AttendanceRepository persists each user's attendance sheet as a flat JSON
// object under attendance_<username>, keyed by month-year-status-studentId.
type AttendanceRepository struct {
	store kv.Store
}

// NewAttendanceRepository constructs an attendance repository.
func NewAttendanceRepository(store kv.Store) *AttendanceRepository {
	return &AttendanceRepository{store: store}
}

// Sheet returns the user's attendance sheet. A missing key is an empty sheet.
func (r *AttendanceRepository) Sheet(username string) (models.AttendanceSheet, error) {
	raw, err := r.store.Get(AttendanceKey(username))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return models.AttendanceSheet{}, nil
		}
		return nil, fmt.Errorf("read attendance: %w", err)
	}

	sheet := models.AttendanceSheet{}
	if err := json.Unmarshal([]byte(raw), &sheet); err != nil {
		return nil, fmt.Errorf("parse attendance: %w", err)
	}
	return sheet, nil
}

// Merge overlays the given cells onto the stored sheet. Existing keys not
// present in the payload are preserved.
func (r *AttendanceRepository) Merge(username string, cells models.AttendanceSheet) error {
	sheet, err := r.Sheet(username)
	if err != nil {
		return err
	}
	for key, cell := range cells {
		sheet[key] = cell
	}

	raw, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("encode attendance: %w", err)
	}
	if err := r.store.Set(AttendanceKey(username), string(raw)); err != nil {
		return fmt.Errorf("write attendance: %w", err)
	}
	return nil
}

// Clear removes the user's attendance sheet.
func (r *AttendanceRepository) Clear(username string) error {
	if err := r.store.Delete(AttendanceKey(username)); err != nil {
		return fmt.Errorf("clear attendance: %w", err)
	}
	return nil
}
