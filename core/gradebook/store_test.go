package gradebook

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
)

func strPtr(s string) *string                 { return &s }
func fltPtr(f float64) *float64               { return &f }
func typPtr(t AssignmentType) *AssignmentType { return &t }

func mustAssignment(t *testing.T, id string, maxPoints, weight float64) Assignment {
	t.Helper()
	a, err := NewAssignment(id, "Assignment "+id, maxPoints, weight, "")
	require.NoError(t, err)
	return a
}

func newTestGradebook(t *testing.T, opts ...Option) *Gradebook {
	t.Helper()
	gb := New(opts...)
	require.NoError(t, gb.AddStudent(Student{ID: "s1", FirstName: "Ada", LastName: "Obi", Email: "ada@test.cd"}))
	require.NoError(t, gb.AddStudent(Student{ID: "s2", FirstName: "Bayo", LastName: "Eze"}))
	require.NoError(t, gb.AddAssignment(mustAssignment(t, "A", 100, 0.4)))
	require.NoError(t, gb.AddAssignment(mustAssignment(t, "B", 50, 0.6)))
	return gb
}

func TestNewAssignment(t *testing.T) {
	tests := []struct {
		name      string
		maxPoints float64
		weight    float64
		wantField string
	}{
		{name: "valid", maxPoints: 100, weight: 0.5},
		{name: "zero weight", maxPoints: 10, weight: 0},
		{name: "unit weight", maxPoints: 10, weight: 1},
		{name: "zero max points", maxPoints: 0, weight: 0.5, wantField: "max_points"},
		{name: "negative max points", maxPoints: -5, weight: 0.5, wantField: "max_points"},
		{name: "negative weight", maxPoints: 10, weight: -0.1, wantField: "weight"},
		{name: "weight above one", maxPoints: 10, weight: 1.01, wantField: "weight"},
		{name: "NaN weight", maxPoints: 10, weight: math.NaN(), wantField: "weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAssignment("a1", "Quiz 1", tt.maxPoints, tt.weight, "")
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, TypeGeneric, a.Type)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAssignment))
			var vErr *core.ValidationError
			require.True(t, errors.As(err, &vErr))
			require.Len(t, vErr.Fields, 1)
			assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
		})
	}
}

func TestGradebook_Students(t *testing.T) {
	gb := newTestGradebook(t)

	t.Run("duplicate", func(t *testing.T) {
		err := gb.AddStudent(Student{ID: "s1", FirstName: "Other"})
		assert.True(t, errors.Is(err, ErrDuplicateEntity))
		st, _ := gb.GetStudent("s1")
		assert.Equal(t, "Ada", st.FirstName)
	})

	t.Run("empty id", func(t *testing.T) {
		err := gb.AddStudent(Student{FirstName: "Nobody"})
		assert.True(t, errors.Is(err, ErrInvalidStudent))
		assert.True(t, core.IsValidation(err))
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := gb.GetStudent("nope")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("update replaces only set fields", func(t *testing.T) {
		st, err := gb.UpdateStudent("s1", StudentUpdate{LastName: strPtr("Okafor")})
		require.NoError(t, err)
		assert.Equal(t, Student{ID: "s1", FirstName: "Ada", LastName: "Okafor", Email: "ada@test.cd"}, st)

		got, err := gb.GetStudent("s1")
		require.NoError(t, err)
		assert.Equal(t, st, got)
	})

	t.Run("update unknown", func(t *testing.T) {
		_, err := gb.UpdateStudent("nope", StudentUpdate{FirstName: strPtr("X")})
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("insertion order", func(t *testing.T) {
		sts := gb.Students()
		require.Len(t, sts, 2)
		assert.Equal(t, "s1", sts[0].ID)
		assert.Equal(t, "s2", sts[1].ID)
	})
}

func TestGradebook_DeleteStudent(t *testing.T) {
	gb := newTestGradebook(t)
	require.NoError(t, gb.EnterGrade("s1", "A", 80))
	require.NoError(t, gb.EnterGrade("s2", "A", 60))

	require.NoError(t, gb.DeleteStudent("s1"))

	_, ok := gb.Score("s1", "A")
	assert.False(t, ok)
	_, err := gb.StudentPercentage("s1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, []GradeEntry{{StudentID: "s2", AssignmentID: "A", Score: 60}}, gb.Grades())
	assert.False(t, gb.HasStudent("s1"))

	err = gb.DeleteStudent("s1")
	assert.True(t, errors.Is(err, ErrNotFound))

	// re-adding starts from an empty row
	require.NoError(t, gb.AddStudent(Student{ID: "s1"}))
	_, ok = gb.Score("s1", "A")
	assert.False(t, ok)
}

func TestGradebook_Assignments(t *testing.T) {
	gb := newTestGradebook(t)

	t.Run("duplicate", func(t *testing.T) {
		err := gb.AddAssignment(mustAssignment(t, "A", 10, 0.1))
		assert.True(t, errors.Is(err, ErrDuplicateEntity))
	})

	t.Run("invalid", func(t *testing.T) {
		err := gb.AddAssignment(Assignment{ID: "C", MaxPoints: 0, Weight: 0.5})
		assert.True(t, errors.Is(err, ErrInvalidAssignment))
		_, err = gb.GetAssignment("C")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("update", func(t *testing.T) {
		due := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
		a, err := gb.UpdateAssignment("A", AssignmentUpdate{
			Name: strPtr("Midterm"),
			Type: typPtr(TypeExam),
			Due:  &due,
		})
		require.NoError(t, err)
		assert.Equal(t, "Midterm", a.Name)
		assert.Equal(t, TypeExam, a.Type)
		assert.Equal(t, 100.0, a.MaxPoints)
		assert.Equal(t, 0.4, a.Weight)
		require.NotNil(t, a.Due)
		assert.True(t, due.Equal(*a.Due))
	})

	t.Run("update validates", func(t *testing.T) {
		_, err := gb.UpdateAssignment("A", AssignmentUpdate{Weight: fltPtr(2)})
		assert.True(t, errors.Is(err, ErrInvalidAssignment))
		a, _ := gb.GetAssignment("A")
		assert.Equal(t, 0.4, a.Weight)
	})

	t.Run("max points below recorded score", func(t *testing.T) {
		require.NoError(t, gb.EnterGrade("s1", "B", 45))
		_, err := gb.UpdateAssignment("B", AssignmentUpdate{MaxPoints: fltPtr(40)})
		assert.True(t, errors.Is(err, ErrInvalidAssignment))
		_, err = gb.UpdateAssignment("B", AssignmentUpdate{MaxPoints: fltPtr(45)})
		assert.NoError(t, err)
	})

	t.Run("update unknown", func(t *testing.T) {
		_, err := gb.UpdateAssignment("Z", AssignmentUpdate{Name: strPtr("Z")})
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestGradebook_DeleteAssignment(t *testing.T) {
	gb := newTestGradebook(t)
	require.NoError(t, gb.EnterGrade("s1", "A", 80))
	require.NoError(t, gb.EnterGrade("s1", "B", 20))
	require.NoError(t, gb.EnterGrade("s2", "A", 70))
	require.NoError(t, gb.EnterGrade("s2", "B", 30))

	require.NoError(t, gb.DeleteAssignment("A"))

	assert.Equal(t, []GradeEntry{
		{StudentID: "s1", AssignmentID: "B", Score: 20},
		{StudentID: "s2", AssignmentID: "B", Score: 30},
	}, gb.Grades())
	assert.Len(t, gb.Assignments(), 1)

	err := gb.DeleteAssignment("A")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGradebook_EnterGrade(t *testing.T) {
	gb := newTestGradebook(t)

	tests := []struct {
		name         string
		studentID    string
		assignmentID string
		score        float64
		wantErr      error
	}{
		{name: "unknown student", studentID: "nope", assignmentID: "A", score: 10, wantErr: ErrNotFound},
		{name: "unknown assignment", studentID: "s1", assignmentID: "nope", score: 10, wantErr: ErrNotFound},
		{name: "below zero", studentID: "s1", assignmentID: "A", score: -0.01, wantErr: ErrInvalidGrade},
		{name: "above max", studentID: "s1", assignmentID: "B", score: 50.01, wantErr: ErrInvalidGrade},
		{name: "NaN", studentID: "s1", assignmentID: "A", score: math.NaN(), wantErr: ErrInvalidGrade},
		{name: "infinity", studentID: "s1", assignmentID: "A", score: math.Inf(1), wantErr: ErrInvalidGrade},
		{name: "exactly zero", studentID: "s1", assignmentID: "A", score: 0},
		{name: "exactly max", studentID: "s1", assignmentID: "B", score: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := gb.Grades()
			err := gb.EnterGrade(tt.studentID, tt.assignmentID, tt.score)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Equal(t, before, gb.Grades())
				return
			}
			require.NoError(t, err)
			score, ok := gb.Score(tt.studentID, tt.assignmentID)
			assert.True(t, ok)
			assert.Equal(t, tt.score, score)
		})
	}

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, gb.EnterGrade("s2", "A", 10))
		require.NoError(t, gb.EnterGrade("s2", "A", 90))
		score, _ := gb.Score("s2", "A")
		assert.Equal(t, 90.0, score)
	})
}

func TestParseScore(t *testing.T) {
	score, err := ParseScore(" 42.5 ")
	require.NoError(t, err)
	assert.Equal(t, 42.5, score)

	_, err = ParseScore("forty")
	assert.True(t, errors.Is(err, ErrInvalidGrade))
}
