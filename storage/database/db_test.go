package database

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/user"
	logsvc "github.com/trezcool/gradebook/services/logger"
	"github.com/trezcool/gradebook/storage"
)

func prepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, core.StorageConfig{Driver: DriverSQLite, DSN: "file::memory:?_pragma=foreign_keys(1)"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(ctx, db, logsvc.NewNop(), "up"))
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), core.StorageConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db := prepareDB(t)

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`))
	assert.Equal(t, []string{"accounts", "assignments", "goose_db_version", "grades", "students"}, tables)

	require.NoError(t, Migrate(ctx, db, logsvc.NewNop(), "down"))
	require.NoError(t, Migrate(ctx, db, logsvc.NewNop(), "up"))

	err := Migrate(ctx, db, logsvc.NewNop(), "lol")
	assert.Error(t, err)
}

func TestBackend_WriteRead(t *testing.T) {
	ctx := context.Background()
	b := NewBackend(prepareDB(t))

	empty, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.Records{}, empty)

	due := time.Date(2026, 11, 14, 0, 0, 0, 0, time.UTC)
	recs := storage.Records{
		Students: []gradebook.Student{
			{ID: "s2", FirstName: "Bayo", LastName: "Eze"},
			{ID: "s1", FirstName: "Ada", LastName: "Obi", Email: "ada@test.cd"},
		},
		Assignments: []gradebook.Assignment{
			{ID: "B", Name: "Final", MaxPoints: 50, Weight: 0.6, Type: gradebook.TypeExam, Due: &due, Description: "room 4"},
			{ID: "A", Name: "Quiz", MaxPoints: 100, Weight: 0.4, Type: gradebook.TypeQuiz},
		},
		Grades: []gradebook.GradeEntry{
			{StudentID: "s2", AssignmentID: "B", Score: 41.5},
			{StudentID: "s2", AssignmentID: "A", Score: 70},
			{StudentID: "s1", AssignmentID: "A", Score: 80},
		},
	}
	require.NoError(t, b.Write(ctx, recs))

	got, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	// replace-all
	recs.Students = recs.Students[1:]
	recs.Grades = recs.Grades[2:]
	require.NoError(t, b.Write(ctx, recs))
	got, err = b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, recs, got)
}

func TestBackend_WriteRollsBack(t *testing.T) {
	ctx := context.Background()
	b := NewBackend(prepareDB(t))

	good := storage.Records{Students: []gradebook.Student{{ID: "s1"}}}
	require.NoError(t, b.Write(ctx, good))

	bad := storage.Records{
		Students: []gradebook.Student{{ID: "s2"}},
		Grades:   []gradebook.GradeEntry{{StudentID: "s2", AssignmentID: "missing", Score: 1}},
	}
	require.Error(t, b.Write(ctx, bad))

	got, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, good, got)
}

func TestAccountRepository(t *testing.T) {
	repo := NewAccountRepository(prepareDB(t))

	_, err := repo.GetAccount(user.RoleTeacher, "teacher")
	assert.Equal(t, user.ErrNotFound, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("teacher"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.SaveAccount(user.Account{Role: user.RoleStudent, Username: "s1", PasswordHash: []byte("x")}))
	require.NoError(t, repo.SaveAccount(user.Account{Role: user.RoleTeacher, Username: "teacher", PasswordHash: []byte("y")}))
	require.NoError(t, repo.SaveAccount(user.Account{Role: user.RoleTeacher, Username: "teacher", PasswordHash: hash}))

	acc, err := repo.GetAccount(user.RoleTeacher, "teacher")
	require.NoError(t, err)
	assert.NoError(t, acc.CheckPassword("teacher"))

	accs, err := repo.ListAccounts()
	require.NoError(t, err)
	require.Len(t, accs, 2)
	assert.Equal(t, user.RoleTeacher, accs[0].Role)
	assert.Equal(t, "s1", accs[1].Username)
}
