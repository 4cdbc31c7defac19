package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/school-vault-api/internal/models"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
	"github.com/noah-isme/school-vault-api/pkg/export"
	"github.com/noah-isme/school-vault-api/pkg/jobs"
	"github.com/noah-isme/school-vault-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type sheetRenderer interface {
	Render(sheet export.ResultSheet) ([]byte, error)
}

// ReportConfig tunes result-sheet generation.
type ReportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// SheetDownload aggregates resolved download data.
type SheetDownload struct {
	File      *os.File
	Filename  string
	Format    models.SheetFormat
	ExpiresAt time.Time
}

// sheetPayload is everything the worker needs, captured at submission time
// while the caller's session is still valid. The worker itself never touches
// the session.
type sheetPayload struct {
	sheet export.ResultSheet
}

// ReportService renders per-student result sheets in the background: the
// student's profile, term marks with grade letters, and attendance totals
// rolled into one downloadable PDF or CSV behind a signed token.
type ReportService struct {
	students   *StudentService
	marks      *MarksService
	attendance *AttendanceService
	sessions   *SessionService

	queue   jobDispatcher
	storage fileStorage
	signer  *storage.SignedURLSigner
	csv     sheetRenderer
	pdf     sheetRenderer
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ReportConfig

	mu       sync.Mutex
	registry map[string]*models.SheetJob
}

// NewReportService constructs the report service. The queue is attached
// separately because its handler is this service's Process method.
func NewReportService(students *StudentService, marks *MarksService, attendance *AttendanceService, sessions *SessionService, fs fileStorage, signer *storage.SignedURLSigner, cfg ReportConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportService{
		students:   students,
		marks:      marks,
		attendance: attendance,
		sessions:   sessions,
		storage:    fs,
		signer:     signer,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
		cfg:        cfg,
		registry:   make(map[string]*models.SheetJob),
	}
}

// AttachQueue wires the dispatcher that feeds Process.
func (s *ReportService) AttachQueue(queue jobDispatcher) {
	s.queue = queue
}

// AttachMetrics wires optional instrumentation.
func (s *ReportService) AttachMetrics(metrics *MetricsService) {
	s.metrics = metrics
}

// Create validates the request, snapshots the student's data and queues a
// rendering job.
func (s *ReportService) Create(studentID string, format models.SheetFormat) (*models.SheetJob, error) {
	username, err := s.sessions.Require()
	if err != nil {
		return nil, err
	}
	if format != models.SheetFormatPDF && format != models.SheetFormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}

	sheet, err := s.buildSheet(studentID)
	if err != nil {
		return nil, err
	}

	job := &models.SheetJob{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Format:    format,
		Status:    models.SheetStatusQueued,
		Owner:     username,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.registry[job.ID] = job
	s.mu.Unlock()

	if s.queue == nil {
		s.fail(job.ID, "rendering queue unavailable")
		return nil, appErrors.Clone(appErrors.ErrInternal, "rendering queue unavailable")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "result-sheet", Payload: sheetPayload{sheet: *sheet}}); err != nil {
		s.fail(job.ID, "failed to enqueue rendering job")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue rendering job")
	}
	return s.snapshot(job.ID), nil
}

// Status returns job metadata, enforcing ownership.
func (s *ReportService) Status(id string) (*models.SheetJob, error) {
	username, err := s.sessions.Require()
	if err != nil {
		return nil, err
	}
	job := s.snapshot(id)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "sheet job not found")
	}
	if job.Owner != username {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "sheet job belongs to another user")
	}
	return job, nil
}

// Process renders one queued job. It is the queue handler.
func (s *ReportService) Process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(sheetPayload)
	if !ok {
		s.fail(job.ID, "malformed job payload")
		return nil
	}

	s.setStatus(job.ID, models.SheetStatusProcessing)

	tracked := s.snapshot(job.ID)
	if tracked == nil {
		return nil
	}

	var renderer sheetRenderer
	ext := string(tracked.Format)
	if tracked.Format == models.SheetFormatCSV {
		renderer = s.csv
	} else {
		renderer = s.pdf
	}

	data, err := renderer.Render(payload.sheet)
	if err != nil {
		s.fail(job.ID, err.Error())
		return fmt.Errorf("render sheet %s: %w", job.ID, err)
	}

	filename := filepath.Join(tracked.Owner, fmt.Sprintf("result-%s-%s.%s", tracked.StudentID, job.ID, ext))
	relPath, err := s.storage.Save(filename, data)
	if err != nil {
		s.fail(job.ID, "failed to store rendered sheet")
		return fmt.Errorf("store sheet %s: %w", job.ID, err)
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.fail(job.ID, "failed to sign download token")
		return fmt.Errorf("sign sheet %s: %w", job.ID, err)
	}

	url := strings.TrimRight(s.cfg.APIPrefix, "/")
	if url == "" {
		url = "/api"
	}
	url = fmt.Sprintf("%s/reports/download/%s", url, token)

	now := time.Now().UTC()
	s.mu.Lock()
	if tracked := s.registry[job.ID]; tracked != nil {
		tracked.Status = models.SheetStatusDone
		tracked.Token = token
		tracked.ResultURL = url
		tracked.ExpiresAt = &expiresAt
		tracked.FinishedAt = &now
	}
	s.mu.Unlock()

	s.metrics.RecordSheetRendered()
	s.logger.Info("result sheet rendered", zap.String("job_id", job.ID), zap.String("path", relPath))
	return nil
}

// ResolveDownload validates a token and opens the rendered file. Download
// needs no session: the token itself is the capability.
func (s *ReportService) ResolveDownload(token string) (*SheetDownload, error) {
	jobID, relPath, expiresAt, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job := s.snapshot(jobID)
	if job == nil || job.Token != token {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}

	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "rendered sheet no longer available")
	}
	return &SheetDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    job.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// Cleanup removes rendered files older than the result TTL.
func (s *ReportService) Cleanup() {
	deleted, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("sheet cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("expired sheets removed", zap.Int("count", len(deleted)))
	}
}

func (s *ReportService) buildSheet(studentID string) (*export.ResultSheet, error) {
	student, err := s.students.ByID(studentID)
	if err != nil {
		return nil, err
	}
	studentMarks, err := s.marks.ForStudent(studentID)
	if err != nil {
		return nil, err
	}
	summaries, err := s.attendance.Summary()
	if err != nil {
		return nil, err
	}

	subjects := make([]string, 0)
	seen := make(map[string]bool)
	for _, subject := range student.Subjects {
		if !seen[subject.Name] {
			subjects = append(subjects, subject.Name)
			seen[subject.Name] = true
		}
	}
	extra := make([]string, 0)
	for _, termMarks := range studentMarks {
		for subject := range termMarks {
			if !seen[subject] {
				extra = append(extra, subject)
				seen[subject] = true
			}
		}
	}
	sort.Strings(extra)
	subjects = append(subjects, extra...)

	headers := []string{"Subject", "Term 1 Marks", "Term 1 Grade", "Term 2 Marks", "Term 2 Grade"}
	termColumns := map[string][2]string{
		models.Term1: {"Term 1 Marks", "Term 1 Grade"},
		models.Term2: {"Term 2 Marks", "Term 2 Grade"},
	}
	rows := make([]map[string]string, 0, len(subjects))
	totals := map[string]int{}
	counts := map[string]int{}

	for _, subject := range subjects {
		row := map[string]string{"Subject": subject}
		for _, term := range []string{models.Term1, models.Term2} {
			columns := termColumns[term]
			cell, ok := studentMarks[term][subject]
			if ok && cell.Valid {
				row[columns[0]] = strconv.Itoa(cell.Value)
				row[columns[1]] = GradeLetter(cell.Value)
				totals[term] += cell.Value
				counts[term]++
			} else {
				row[columns[0]] = "-"
				row[columns[1]] = "-"
			}
		}
		rows = append(rows, row)
	}

	headerLines := []string{
		fmt.Sprintf("Name: %s", student.StudentName),
		fmt.Sprintf("Class: %s    Registration No: %s", student.Class, student.RegistrationNumber),
	}
	if student.SchoolName != "" {
		headerLines = append([]string{fmt.Sprintf("School: %s", student.SchoolName)}, headerLines...)
	}

	footer := make([]string, 0, 3)
	for _, term := range []string{models.Term1, models.Term2} {
		if counts[term] == 0 {
			continue
		}
		percent := totals[term] * 100 / (counts[term] * 100)
		footer = append(footer, fmt.Sprintf("%s: %d/%d (%d%%, grade %s)",
			termLabel(term), totals[term], counts[term]*100, percent, GradeLetter(percent)))
	}
	if summary, ok := summaries[studentID]; ok {
		footer = append(footer, fmt.Sprintf("Attendance: %d days present, %d days absent", summary.Present, summary.Absent))
	}

	return &export.ResultSheet{
		Title:       "Annual Result Sheet",
		HeaderLines: headerLines,
		Table:       export.Dataset{Headers: headers, Rows: rows},
		FooterLines: footer,
	}, nil
}

func (s *ReportService) snapshot(id string) *models.SheetJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.registry[id]
	if !ok {
		return nil
	}
	clone := *job
	return &clone
}

func (s *ReportService) setStatus(id string, status models.SheetStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.registry[id]; ok {
		job.Status = status
	}
}

func (s *ReportService) fail(id, message string) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.registry[id]; ok {
		job.Status = models.SheetStatusFailed
		job.Error = message
		job.FinishedAt = &now
	}
}

// GradeLetter maps a percentage-scale score to its report-card letter.
func GradeLetter(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	case score >= 40:
		return "E"
	default:
		return "F"
	}
}

func termLabel(term string) string {
	switch term {
	case models.Term1:
		return "Term 1"
	case models.Term2:
		return "Term 2"
	default:
		return term
	}
}
