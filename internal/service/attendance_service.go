package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/school-vault-api/internal/models"
	"github.com/noah-isme/school-vault-api/internal/validate"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
)

type attendanceRepository interface {
	Sheet(username string) (models.AttendanceSheet, error)
	Merge(username string, cells models.AttendanceSheet) error
	Clear(username string) error
}

// MonthTally is one month's day counts.
type MonthTally struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

// AttendanceSummary aggregates one student's day counts, overall and per
// "{month}-{year}" bucket.
type AttendanceSummary struct {
	StudentID string                `json:"studentId"`
	Present   int                   `json:"present"`
	Absent    int                   `json:"absent"`
	Months    map[string]MonthTally `json:"months"`
}

// AttendanceService handles the attendance sheet. Validation here is
// corrective rather than all-or-nothing: bad cells are clamped to zero, the
// save proceeds, and the caller gets the list of corrections as warnings.
type AttendanceService struct {
	repo     attendanceRepository
	sessions *SessionService
	logger   *zap.Logger
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(repo attendanceRepository, sessions *SessionService, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, sessions: sessions, logger: logger}
}

// Save merges the given cells into the stored sheet. Months absent from the
// payload are untouched. The returned warnings name every clamped cell.
func (s *AttendanceService) Save(cells models.AttendanceSheet) ([]string, error) {
	username, err := s.sessions.Require()
	if err != nil {
		return nil, err
	}

	result, sanitized := validate.Attendance(cells)
	if !result.IsValid {
		s.logger.Warn("attendance corrected on save",
			zap.String("username", username),
			zap.Int("corrections", len(result.Errors)))
	}

	if err := s.repo.Merge(username, sanitized); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to persist attendance")
	}
	return result.Errors, nil
}

// All returns the full sheet, re-validated so cells corrupted at rest come
// back clamped instead of breaking callers.
func (s *AttendanceService) All() (models.AttendanceSheet, error) {
	username, err := s.sessions.Require()
	if err != nil {
		return nil, err
	}

	sheet, err := s.repo.Sheet(username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read attendance")
	}
	_, sanitized := validate.Attendance(sheet)
	return sanitized, nil
}

// Summary totals present and absent days per student across the whole year.
// Keys that do not parse are skipped.
func (s *AttendanceService) Summary() (map[string]AttendanceSummary, error) {
	sheet, err := s.All()
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]AttendanceSummary)
	for key, cell := range sheet {
		if !cell.Valid {
			continue
		}
		month, year, status, studentID, err := models.ParseAttendanceKey(key)
		if err != nil {
			continue
		}
		summary := summaries[studentID]
		summary.StudentID = studentID
		if summary.Months == nil {
			summary.Months = make(map[string]MonthTally)
		}
		bucket := month + "-" + year
		tally := summary.Months[bucket]
		if status == models.AttendancePresent {
			summary.Present += cell.Value
			tally.Present += cell.Value
		} else {
			summary.Absent += cell.Value
			tally.Absent += cell.Value
		}
		summary.Months[bucket] = tally
		summaries[studentID] = summary
	}
	return summaries, nil
}

// Clear wipes the user's attendance sheet.
func (s *AttendanceService) Clear() error {
	username, err := s.sessions.Require()
	if err != nil {
		return err
	}
	if err := s.repo.Clear(username); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to clear attendance")
	}
	return nil
}
