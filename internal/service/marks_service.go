package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/school-vault-api/internal/models"
	"github.com/noah-isme/school-vault-api/internal/validate"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
)

type marksRepository interface {
	Book(username string) (models.MarksBook, error)
	Merge(username string, entries models.MarksBook) error
	Clear(username string) error
}

// MarksService handles the nested marks book. Because the repository merge
// replaces whole student entries, saving one term reads the stored entry
// first and folds the new term in so the other term survives.
type MarksService struct {
	repo     marksRepository
	sessions *SessionService
	logger   *zap.Logger
}

// NewMarksService constructs a MarksService instance.
func NewMarksService(repo marksRepository, sessions *SessionService, logger *zap.Logger) *MarksService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarksService{repo: repo, sessions: sessions, logger: logger}
}

// SaveTerm records one term's subject marks for one student, preserving the
// student's other terms. Out-of-range marks are blanked and reported as
// warnings; the save still proceeds.
func (s *MarksService) SaveTerm(studentID, term string, subjects models.TermMarks) ([]string, error) {
	username, err := s.sessions.Require()
	if err != nil {
		return nil, err
	}

	result, sanitized := validate.Marks(models.MarksBook{studentID: {term: subjects}})
	if !result.IsValid {
		s.logger.Warn("marks corrected on save",
			zap.String("username", username),
			zap.Int("corrections", len(result.Errors)))
	}

	book, err := s.repo.Book(username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read marks")
	}

	merged := models.MarksBook{}
	for id, terms := range sanitized {
		entry := models.StudentMarks{}
		for existingTerm, existing := range book[id] {
			entry[existingTerm] = existing
		}
		for newTerm, marks := range terms {
			entry[newTerm] = marks
		}
		merged[id] = entry
	}

	if err := s.repo.Merge(username, merged); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to persist marks")
	}
	return result.Errors, nil
}

// All returns the full marks book, re-validated on the way out.
func (s *MarksService) All() (models.MarksBook, error) {
	username, err := s.sessions.Require()
	if err != nil {
		return nil, err
	}

	book, err := s.repo.Book(username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read marks")
	}
	_, sanitized := validate.Marks(book)
	return sanitized, nil
}

// ForStudent returns one student's marks across all terms.
func (s *MarksService) ForStudent(studentID string) (models.StudentMarks, error) {
	book, err := s.All()
	if err != nil {
		return nil, err
	}
	marks, ok := book[studentID]
	if !ok {
		return models.StudentMarks{}, nil
	}
	return marks, nil
}

// Clear wipes the user's marks book.
func (s *MarksService) Clear() error {
	username, err := s.sessions.Require()
	if err != nil {
		return err
	}
	if err := s.repo.Clear(username); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to clear marks")
	}
	return nil
}
