package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-vault-api/internal/models"
	appErrors "github.com/noah-isme/school-vault-api/pkg/errors"
)

func TestMarksSaveTermRequiresSession(t *testing.T) {
	stack := newVaultStack(t)

	_, err := stack.marks.SaveTerm("S1", models.Term1, models.TermMarks{
		"Mathematics": models.NewCell(85),
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAuthenticationRequired))
}

func TestMarksSaveTermPreservesOtherTerm(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	_, err := stack.marks.SaveTerm("S1", models.Term1, models.TermMarks{
		"Mathematics": models.NewCell(85),
		"Science":     models.NewCell(78),
	})
	require.NoError(t, err)

	_, err = stack.marks.SaveTerm("S1", models.Term2, models.TermMarks{
		"Mathematics": models.NewCell(90),
	})
	require.NoError(t, err)

	book, err := stack.marks.All()
	require.NoError(t, err)
	assert.Equal(t, models.NewCell(85), book["S1"][models.Term1]["Mathematics"])
	assert.Equal(t, models.NewCell(78), book["S1"][models.Term1]["Science"])
	assert.Equal(t, models.NewCell(90), book["S1"][models.Term2]["Mathematics"])
}

func TestMarksSaveTermDoesNotDisturbOtherStudents(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	_, err := stack.marks.SaveTerm("S1", models.Term1, models.TermMarks{"Mathematics": models.NewCell(85)})
	require.NoError(t, err)
	_, err = stack.marks.SaveTerm("S2", models.Term1, models.TermMarks{"Mathematics": models.NewCell(60)})
	require.NoError(t, err)

	book, err := stack.marks.All()
	require.NoError(t, err)
	assert.Equal(t, models.NewCell(85), book["S1"][models.Term1]["Mathematics"])
	assert.Equal(t, models.NewCell(60), book["S2"][models.Term1]["Mathematics"])
}

func TestMarksSaveTermBlanksInvalidAndWarns(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	warnings, err := stack.marks.SaveTerm("S1", models.Term1, models.TermMarks{
		"Mathematics": models.NewCell(85),
		"Science":     models.NewCell(1500),
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)

	book, err := stack.marks.All()
	require.NoError(t, err)
	assert.Equal(t, models.NewCell(85), book["S1"][models.Term1]["Mathematics"])
	assert.Equal(t, models.EmptyCell, book["S1"][models.Term1]["Science"])
}

func TestMarksForStudentMissingIsEmpty(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	marks, err := stack.marks.ForStudent("ghost")
	require.NoError(t, err)
	assert.Empty(t, marks)
}

func TestMarksClear(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	_, err := stack.marks.SaveTerm("S1", models.Term1, models.TermMarks{"Mathematics": models.NewCell(85)})
	require.NoError(t, err)
	require.NoError(t, stack.marks.Clear())

	book, err := stack.marks.All()
	require.NoError(t, err)
	assert.Empty(t, book)
}

func TestVaultClearAllWipesEveryCollection(t *testing.T) {
	stack := newVaultStack(t)
	stack.login(t, "teacher1")

	_, err := stack.students.Save(testStudent("R001"))
	require.NoError(t, err)
	_, err = stack.attendance.Save(models.AttendanceSheet{"june-2025-present-S1": models.NewCell(20)})
	require.NoError(t, err)
	_, err = stack.marks.SaveTerm("S1", models.Term1, models.TermMarks{"Mathematics": models.NewCell(85)})
	require.NoError(t, err)

	vault := NewVaultService(stack.students, stack.attendance, stack.marks, nil)
	require.NoError(t, vault.ClearAll())

	students, err := stack.students.All()
	require.NoError(t, err)
	assert.Empty(t, students)
	sheet, err := stack.attendance.All()
	require.NoError(t, err)
	assert.Empty(t, sheet)
	book, err := stack.marks.All()
	require.NoError(t, err)
	assert.Empty(t, book)
}
