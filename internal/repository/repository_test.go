package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-vault-api/internal/kv"
	"github.com/noah-isme/school-vault-api/internal/models"
)

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionRepository(kv.NewMemoryStore())

	session, err := repo.Get()
	require.NoError(t, err)
	assert.Nil(t, session)

	loginTime := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Set(&models.Session{Username: "teacher1", LoginTime: loginTime}))

	session, err = repo.Get()
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "teacher1", session.Username)
	assert.True(t, session.LoginTime.Equal(loginTime))

	require.NoError(t, repo.Clear())
	session, err = repo.Get()
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionRepositoryMalformedSlotFailsSoft(t *testing.T) {
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set("currentUser", "{not json"))

	repo := NewSessionRepository(store)
	session, err := repo.Get()
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestCredentialRepositoryMerges(t *testing.T) {
	repo := NewCredentialRepository(kv.NewMemoryStore())

	_, ok, err := repo.Hash("teacher1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Store("teacher1", "hash-1"))
	require.NoError(t, repo.Store("teacher2", "hash-2"))

	hash, ok, err := repo.Hash("teacher1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hash-1", hash)

	hash, ok, err = repo.Hash("teacher2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hash-2", hash)
}

func TestStudentRepositoryNamespacesPerUser(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewStudentRepository(store)

	require.NoError(t, repo.Replace("alice", []models.Student{{ID: "1", StudentName: "Asha"}}))
	require.NoError(t, repo.Replace("bob", []models.Student{{ID: "2", StudentName: "Ravi"}}))

	aliceStudents, err := repo.List("alice")
	require.NoError(t, err)
	require.Len(t, aliceStudents, 1)
	assert.Equal(t, "Asha", aliceStudents[0].StudentName)

	bobStudents, err := repo.List("bob")
	require.NoError(t, err)
	require.Len(t, bobStudents, 1)
	assert.Equal(t, "Ravi", bobStudents[0].StudentName)

	require.NoError(t, repo.Clear("alice"))
	aliceStudents, err = repo.List("alice")
	require.NoError(t, err)
	assert.Empty(t, aliceStudents)

	bobStudents, err = repo.List("bob")
	require.NoError(t, err)
	assert.Len(t, bobStudents, 1)
}

func TestAttendanceRepositoryMergePreservesOtherKeys(t *testing.T) {
	repo := NewAttendanceRepository(kv.NewMemoryStore())

	require.NoError(t, repo.Merge("alice", models.AttendanceSheet{
		"june-2025-present-S1": models.NewCell(20),
	}))
	require.NoError(t, repo.Merge("alice", models.AttendanceSheet{
		"july-2025-present-S1": models.NewCell(18),
	}))

	sheet, err := repo.Sheet("alice")
	require.NoError(t, err)
	assert.Equal(t, models.NewCell(20), sheet["june-2025-present-S1"])
	assert.Equal(t, models.NewCell(18), sheet["july-2025-present-S1"])
}

func TestMarksRepositoryMergeIsShallowByStudent(t *testing.T) {
	repo := NewMarksRepository(kv.NewMemoryStore())

	require.NoError(t, repo.Merge("alice", models.MarksBook{
		"S1": {"term1": {"Mathematics": models.NewCell(85)}},
		"S2": {"term1": {"Mathematics": models.NewCell(60)}},
	}))
	require.NoError(t, repo.Merge("alice", models.MarksBook{
		"S1": {"term2": {"Mathematics": models.NewCell(90)}},
	}))

	book, err := repo.Book("alice")
	require.NoError(t, err)

	// S1's entry was replaced wholesale, S2 untouched.
	_, hasTerm1 := book["S1"]["term1"]
	assert.False(t, hasTerm1)
	assert.Equal(t, models.NewCell(90), book["S1"]["term2"]["Mathematics"])
	assert.Equal(t, models.NewCell(60), book["S2"]["term1"]["Mathematics"])
}
