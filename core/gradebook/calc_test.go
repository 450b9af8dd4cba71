package gradebook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradebook_StudentPercentage(t *testing.T) {
	t.Run("missing score counts as zero", func(t *testing.T) {
		gb := newTestGradebook(t)
		require.NoError(t, gb.EnterGrade("s1", "A", 80))

		pct, err := gb.StudentPercentage("s1")
		require.NoError(t, err)
		assert.InDelta(t, 32.0, pct, 1e-9)

		gpa, err := gb.StudentGPA("s1")
		require.NoError(t, err)
		assert.Equal(t, 0.0, gpa)
	})

	t.Run("full marks", func(t *testing.T) {
		gb := newTestGradebook(t)
		require.NoError(t, gb.EnterGrade("s1", "A", 100))
		require.NoError(t, gb.EnterGrade("s1", "B", 50))

		pct, err := gb.StudentPercentage("s1")
		require.NoError(t, err)
		assert.InDelta(t, 100.0, pct, 1e-9)

		gpa, err := gb.StudentGPA("s1")
		require.NoError(t, err)
		assert.Equal(t, 5.0, gpa)
	})

	t.Run("no assignments", func(t *testing.T) {
		gb := New()
		require.NoError(t, gb.AddStudent(Student{ID: "s1"}))
		_, err := gb.StudentPercentage("s1")
		assert.True(t, errors.Is(err, ErrWeight))
	})

	t.Run("all weights zero", func(t *testing.T) {
		gb := New()
		require.NoError(t, gb.AddStudent(Student{ID: "s1"}))
		require.NoError(t, gb.AddAssignment(mustAssignment(t, "A", 10, 0)))
		_, err := gb.StudentPercentage("s1")
		assert.True(t, errors.Is(err, ErrWeight))
	})

	t.Run("unknown student", func(t *testing.T) {
		gb := newTestGradebook(t)
		_, err := gb.StudentPercentage("nope")
		assert.True(t, errors.Is(err, ErrNotFound))
		_, err = gb.StudentGPA("nope")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestGradebook_StrictWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		wantErr bool
	}{
		{name: "sum to one", weights: []float64{0.4, 0.6}},
		{name: "within tolerance", weights: []float64{0.3, 0.3, 0.4000000001}},
		{name: "below one", weights: []float64{0.4, 0.5}, wantErr: true},
		{name: "above one", weights: []float64{0.6, 0.6}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gb := New(WithStrictWeights(true))
			require.NoError(t, gb.AddStudent(Student{ID: "s1"}))
			for i, w := range tt.weights {
				id := string(rune('A' + i))
				require.NoError(t, gb.AddAssignment(mustAssignment(t, id, 10, w)))
				require.NoError(t, gb.EnterGrade("s1", id, 10))
			}

			pct, err := gb.StudentPercentage("s1")
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrWeight))
				_, err = gb.ClassAverage()
				assert.True(t, errors.Is(err, ErrWeight))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, 100.0, pct, 1e-6)
		})
	}
}

func TestGradebook_NormalizedWeights(t *testing.T) {
	build := func(t *testing.T, factor float64) *Gradebook {
		gb := New()
		require.NoError(t, gb.AddStudent(Student{ID: "s1"}))
		require.NoError(t, gb.AddAssignment(mustAssignment(t, "A", 20, 0.1*factor)))
		require.NoError(t, gb.AddAssignment(mustAssignment(t, "B", 40, 0.2*factor)))
		require.NoError(t, gb.AddAssignment(mustAssignment(t, "C", 10, 0.15*factor)))
		require.NoError(t, gb.EnterGrade("s1", "A", 15))
		require.NoError(t, gb.EnterGrade("s1", "B", 22))
		require.NoError(t, gb.EnterGrade("s1", "C", 9))
		return gb
	}

	base, err := build(t, 1).StudentPercentage("s1")
	require.NoError(t, err)

	for _, factor := range []float64{0.5, 2, 2.2} {
		gb := build(t, factor)
		pct, err := gb.StudentPercentage("s1")
		require.NoError(t, err)
		assert.InDelta(t, base, pct, 1e-9, "factor %g", factor)

		weights, err := gb.NormalizedWeights()
		require.NoError(t, err)
		var sum float64
		for _, w := range weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestGradebook_ClassAverage(t *testing.T) {
	t.Run("no students", func(t *testing.T) {
		avg, err := New().ClassAverage()
		require.NoError(t, err)
		assert.Equal(t, 0.0, avg)
	})

	t.Run("one student", func(t *testing.T) {
		gb := New()
		require.NoError(t, gb.AddStudent(Student{ID: "s1"}))
		require.NoError(t, gb.AddAssignment(mustAssignment(t, "A", 100, 0.4)))
		require.NoError(t, gb.AddAssignment(mustAssignment(t, "B", 50, 0.6)))
		require.NoError(t, gb.EnterGrade("s1", "A", 73))
		require.NoError(t, gb.EnterGrade("s1", "B", 41))

		pct, err := gb.StudentPercentage("s1")
		require.NoError(t, err)
		avg, err := gb.ClassAverage()
		require.NoError(t, err)
		assert.Equal(t, pct, avg)
	})

	t.Run("mean of students", func(t *testing.T) {
		gb := newTestGradebook(t)
		require.NoError(t, gb.EnterGrade("s1", "A", 100))
		require.NoError(t, gb.EnterGrade("s1", "B", 50))
		require.NoError(t, gb.EnterGrade("s2", "A", 50))

		avg, err := gb.ClassAverage()
		require.NoError(t, err)
		assert.InDelta(t, (100.0+20.0)/2, avg, 1e-9)
	})
}
