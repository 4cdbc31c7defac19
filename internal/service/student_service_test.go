package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-vault-api/internal/kv"
	"github.com/noah-isme/school-vault-api/internal/models"
	"github.com/noah-isme/school-vault-api/internal/repository"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
)

type vaultStack struct {
	store      kv.Store
	sessions   *SessionService
	students   *StudentService
	attendance *AttendanceService
	marks      *MarksService
}

func newVaultStack(t *testing.T) *vaultStack {
	t.Helper()
	store := kv.NewMemoryStore()
	sessions := NewSessionService(repository.NewSessionRepository(store), nil, SessionConfig{})
	return &vaultStack{
		store:      store,
		sessions:   sessions,
		students:   NewStudentService(repository.NewStudentRepository(store), sessions, nil, nil),
		attendance: NewAttendanceService(repository.NewAttendanceRepository(store), sessions, nil),
		marks:      NewMarksService(repository.NewMarksRepository(store), sessions, nil),
	}
}

func (v *vaultStack) login(t *testing.T, username string) {
	t.Helper()
	_, err := v.sessions.Start(username)
	require.NoError(t, err)
}

func testStudent(registration string) models.Student {
	return models.Student{
		StudentName:        "Asha Patil",
		Class:              "7",
		RegistrationNumber: registration,
		FatherName:         "Ramesh Patil",
		PhoneNumber:        "9876543210",
	}
}

func TestStudentSaveRequiresSession(t *testing.T) {
	stack := newVaultStack(t)

	_, err := stack.students.Save(testStudent("R001"))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAuthenticationRequired))

	// Nothing was written for any user.
	stack.login(t, "teacher1")
	students, err := stack.students.All()
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestStudentSaveRejectsInvalidWithoutWriting(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	invalid := testStudent("R001")
	invalid.Class = "13"
	_, err := stack.students.Save(invalid)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	students, err := stack.students.All()
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestStudentUpsertPreservesIdentity(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	first, err := stack.students.Save(testStudent("R001"))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	updated := testStudent("R001")
	updated.StudentName = "Asha P. Patil"
	second, err := stack.students.Save(updated)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.Equal(t, "Asha P. Patil", second.StudentName)

	students, err := stack.students.All()
	require.NoError(t, err)
	require.Len(t, students, 1)
}

func TestStudentSensitiveFieldsObfuscatedAtRest(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	_, err := stack.students.Save(testStudent("R001"))
	require.NoError(t, err)

	// Raw repository content carries the scrambled name.
	raw, err := repository.NewStudentRepository(stack.store).List("teacher1")
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.NotEqual(t, "Asha Patil", raw[0].StudentName)
	assert.Equal(t, "R001", raw[0].RegistrationNumber)

	// The read path decodes transparently.
	students, err := stack.students.All()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Asha Patil", students[0].StudentName)
	assert.Equal(t, "9876543210", students[0].PhoneNumber)
}

func TestStudentCrossUserIsolation(t *testing.T) {
	stack := newVaultStack(t)

	stack.login(t, "alice")
	_, err := stack.students.Save(testStudent("R001"))
	require.NoError(t, err)

	stack.login(t, "bob")
	students, err := stack.students.All()
	require.NoError(t, err)
	assert.Empty(t, students)

	stack.login(t, "alice")
	students, err = stack.students.All()
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestStudentDeleteMissing(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	err := stack.students.Delete("nope")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestStudentUpdateHealthLeavesProfileAlone(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	saved, err := stack.students.Save(testStudent("R001"))
	require.NoError(t, err)

	patched, err := stack.students.UpdateHealth(saved.ID, HealthUpdate{
		Height: "142", Weight: "36", HealthNotes: "wears glasses",
	})
	require.NoError(t, err)
	assert.Equal(t, "142", patched.Height)
	assert.Equal(t, "36", patched.Weight)
	assert.Equal(t, "wears glasses", patched.HealthNotes)
	assert.Equal(t, "Asha Patil", patched.StudentName)
	assert.Equal(t, saved.ID, patched.ID)
	assert.Equal(t, saved.Subjects, patched.Subjects)

	fetched, err := stack.students.ByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "142", fetched.Height)
	assert.Equal(t, "Ramesh Patil", fetched.FatherName)
}

func TestStudentUpdateHealthReplacesSubjects(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	saved, err := stack.students.Save(testStudent("R001"))
	require.NoError(t, err)

	subjects := []models.Subject{{Name: "Sanskrit"}, {Name: "Drawing"}}
	patched, err := stack.students.UpdateHealth(saved.ID, HealthUpdate{
		Height: saved.Height, Weight: saved.Weight, Subjects: subjects,
	})
	require.NoError(t, err)
	assert.Equal(t, subjects, patched.Subjects)

	fetched, err := stack.students.ByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, subjects, fetched.Subjects)
}

func TestStudentClear(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	_, err := stack.students.Save(testStudent("R001"))
	require.NoError(t, err)
	require.NoError(t, stack.students.Clear())

	students, err := stack.students.All()
	require.NoError(t, err)
	assert.Empty(t, students)
}
