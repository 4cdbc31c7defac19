package service

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-vault-api/internal/models"
	"github.com/noah-isme/school-vault-api/internal/validate"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
	"github.com/noah-isme/school-vault-api/pkg/obfuscate"
)

type studentRepository interface {
	List(username string) ([]models.Student, error)
	Replace(username string, students []models.Student) error
	Clear(username string) error
}

// CodecFactory builds the field codec for a given user.
type CodecFactory func(username string) obfuscate.Codec

// StudentService handles the student roster. Records are obfuscated before
// they reach the repository and deobfuscated on every read; the registration
// number stays plain because it is the upsert identity.
type StudentService struct {
	repo     studentRepository
	sessions *SessionService
	codecs   CodecFactory
	logger   *zap.Logger
	now      func() time.Time
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, sessions *SessionService, codecs CodecFactory, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if codecs == nil {
		codecs = func(username string) obfuscate.Codec { return obfuscate.NewXORCodec(username) }
	}
	return &StudentService{repo: repo, sessions: sessions, codecs: codecs, logger: logger, now: time.Now}
}

// Save validates and upserts a student record. Validation is all-or-nothing:
// any violation rejects the whole record and nothing is written. The upsert
// key is the registration number; an existing record keeps its id and
// createdAt.
func (s *StudentService) Save(in models.Student) (*models.Student, error) {
	username, err := s.sessions.Require()
	if err != nil {
		return nil, err
	}

	result, sanitized := validate.StudentProfile(in)
	if !result.IsValid {
		return nil, appErrors.Clone(appErrors.ErrValidation, strings.Join(result.Errors, "; "))
	}

	students, err := s.repo.List(username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read students")
	}

	now := s.now()
	sanitized.UpdatedAt = now

	index := -1
	for i, existing := range students {
		if existing.RegistrationNumber == sanitized.RegistrationNumber {
			index = i
			break
		}
	}
	if index >= 0 {
		sanitized.ID = students[index].ID
		sanitized.CreatedAt = students[index].CreatedAt
	} else {
		sanitized.ID = strconv.FormatInt(now.UnixNano(), 10)
		sanitized.CreatedAt = now
	}

	codec := s.codecs(username)
	stored := sanitized.TransformSensitive(codec.Encode)
	if index >= 0 {
		students[index] = stored
	} else {
		students = append(students, stored)
	}

	if err := s.repo.Replace(username, students); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to persist students")
	}

	s.logger.Info("student saved",
		zap.String("username", username),
		zap.String("registrationNumber", sanitized.RegistrationNumber),
		zap.Bool("updated", index >= 0))
	return &sanitized, nil
}

// All returns the user's roster with sensitive fields deobfuscated.
func (s *StudentService) All() ([]models.Student, error) {
	username, err := s.sessions.Require()
	if err != nil {
		return nil, err
	}

	students, err := s.repo.List(username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read students")
	}

	codec := s.codecs(username)
	out := make([]models.Student, len(students))
	for i, student := range students {
		out[i] = student.TransformSensitive(codec.Decode)
	}
	return out, nil
}

// ByID returns one deobfuscated student record.
func (s *StudentService) ByID(id string) (*models.Student, error) {
	students, err := s.All()
	if err != nil {
		return nil, err
	}
	for _, student := range students {
		if student.ID == id {
			return &student, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

// Delete removes one record by id. Deleting an absent id is an error.
func (s *StudentService) Delete(id string) error {
	username, err := s.sessions.Require()
	if err != nil {
		return err
	}

	students, err := s.repo.List(username)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read students")
	}

	kept := students[:0]
	found := false
	for _, student := range students {
		if student.ID == id {
			found = true
			continue
		}
		kept = append(kept, student)
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	if err := s.repo.Replace(username, kept); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to persist students")
	}
	s.logger.Info("student deleted", zap.String("username", username), zap.String("id", id))
	return nil
}

// HealthUpdate is a targeted edit of one student's physical details. A nil
// Subjects slice keeps the current subject list; a non-nil one replaces it.
type HealthUpdate struct {
	Height      string
	Weight      string
	HealthNotes string
	Subjects    []models.Subject
}

// UpdateHealth edits only the physical and health fields (and optionally the
// subject list) of one record, leaving the rest of the profile untouched.
func (s *StudentService) UpdateHealth(id string, update HealthUpdate) (*models.Student, error) {
	username, err := s.sessions.Require()
	if err != nil {
		return nil, err
	}

	current, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	patched := *current
	patched.Height = update.Height
	patched.Weight = update.Weight
	patched.HealthNotes = update.HealthNotes
	if update.Subjects != nil {
		patched.Subjects = update.Subjects
	}

	result, sanitized := validate.StudentProfile(patched)
	if !result.IsValid {
		return nil, appErrors.Clone(appErrors.ErrValidation, strings.Join(result.Errors, "; "))
	}
	sanitized.ID = current.ID
	sanitized.CreatedAt = current.CreatedAt
	sanitized.UpdatedAt = s.now()

	students, err := s.repo.List(username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read students")
	}
	codec := s.codecs(username)
	for i, stored := range students {
		if stored.ID == id {
			students[i] = sanitized.TransformSensitive(codec.Encode)
			break
		}
	}
	if err := s.repo.Replace(username, students); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to persist students")
	}
	return &sanitized, nil
}

// Clear wipes the user's entire roster.
func (s *StudentService) Clear() error {
	username, err := s.sessions.Require()
	if err != nil {
		return err
	}
	if err := s.repo.Clear(username); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to clear students")
	}
	return nil
}
