package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-vault-api/internal/models"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
	"github.com/noah-isme/school-vault-api/pkg/jobs"
	"github.com/noah-isme/school-vault-api/pkg/storage"
)

// inlineQueue runs jobs synchronously so tests see the finished state.
type inlineQueue struct {
	svc *ReportService
}

func (q *inlineQueue) Enqueue(job jobs.Job) error {
	return q.svc.Process(context.Background(), job)
}

func newReportStack(t *testing.T) (*vaultStack, *ReportService) {
	t.Helper()
	stack := newVaultStack(t)

	fs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	reports := NewReportService(stack.students, stack.marks, stack.attendance, stack.sessions, fs, signer, ReportConfig{APIPrefix: "/api/v1"}, nil)
	reports.AttachQueue(&inlineQueue{svc: reports})
	return stack, reports
}

func seedStudentWithMarks(t *testing.T, stack *vaultStack) string {
	t.Helper()
	saved, err := stack.students.Save(testStudent("R001"))
	require.NoError(t, err)

	_, err = stack.marks.SaveTerm(saved.ID, models.Term1, models.TermMarks{
		"Mathematics": models.NewCell(92),
		"Science":     models.NewCell(67),
	})
	require.NoError(t, err)
	_, err = stack.attendance.Save(models.AttendanceSheet{
		"june-2025-present-" + saved.ID: models.NewCell(20),
		"june-2025-absent-" + saved.ID:  models.NewCell(2),
	})
	require.NoError(t, err)
	return saved.ID
}

func TestReportCreateRequiresSession(t *testing.T) {
	_, reports := newReportStack(t)

	_, err := reports.Create("S1", models.SheetFormatPDF)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAuthenticationRequired))
}

func TestReportCreateUnknownStudent(t *testing.T) {
	stack, reports := newReportStack(t)
	stack.login(t, "teacher1")

	_, err := reports.Create("missing", models.SheetFormatPDF)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestReportRendersAndDownloadsCSV(t *testing.T) {
	stack, reports := newReportStack(t)
	stack.login(t, "teacher1")
	studentID := seedStudentWithMarks(t, stack)

	job, err := reports.Create(studentID, models.SheetFormatCSV)
	require.NoError(t, err)

	done, err := reports.Status(job.ID)
	require.NoError(t, err)
	require.Equal(t, models.SheetStatusDone, done.Status)
	require.NotEmpty(t, done.ResultURL)

	download, err := reports.ResolveDownload(tokenFromURL(t, done.ResultURL))
	require.NoError(t, err)
	defer download.File.Close()

	content, err := io.ReadAll(download.File)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "Asha Patil")
	assert.Contains(t, text, "Mathematics")
	assert.Contains(t, text, "92")
	assert.Contains(t, text, "A+")
	assert.Contains(t, text, "20 days present")
}

func TestReportRendersPDF(t *testing.T) {
	stack, reports := newReportStack(t)
	stack.login(t, "teacher1")
	studentID := seedStudentWithMarks(t, stack)

	job, err := reports.Create(studentID, models.SheetFormatPDF)
	require.NoError(t, err)

	done, err := reports.Status(job.ID)
	require.NoError(t, err)
	require.Equal(t, models.SheetStatusDone, done.Status)

	download, err := reports.ResolveDownload(tokenFromURL(t, done.ResultURL))
	require.NoError(t, err)
	defer download.File.Close()

	header := make([]byte, 5)
	_, err = download.File.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(header))
}

func TestReportStatusEnforcesOwnership(t *testing.T) {
	stack, reports := newReportStack(t)
	stack.login(t, "alice")
	studentID := seedStudentWithMarks(t, stack)

	job, err := reports.Create(studentID, models.SheetFormatCSV)
	require.NoError(t, err)

	stack.login(t, "bob")
	_, err = reports.Status(job.ID)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestReportDownloadRejectsForgedToken(t *testing.T) {
	_, reports := newReportStack(t)

	_, err := reports.ResolveDownload("not.a.real.token")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestGradeLetterBoundaries(t *testing.T) {
	cases := map[int]string{
		95: "A+", 90: "A+",
		89: "A", 80: "A",
		79: "B", 70: "B",
		69: "C", 60: "C",
		59: "D", 50: "D",
		49: "E", 40: "E",
		39: "F", 0: "F",
	}
	for score, want := range cases {
		assert.Equal(t, want, GradeLetter(score), "score %d", score)
	}
}

func tokenFromURL(t *testing.T, url string) string {
	t.Helper()
	idx := len("/api/v1/reports/download/")
	require.Greater(t, len(url), idx)
	return url[idx:]
}
