// Package gradebook holds students, assignments and their scores, and derives weighted
// percentages, GPAs and curves from them.
//
// All state lives in a Gradebook. Every mutation keeps the grade matrix consistent with the
// student and assignment collections: a score exists only for a known student and a known
// assignment, and lies within [0, max_points].
package gradebook

import (
	"math"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

type Option func(*Gradebook)

// WithStrictWeights makes percentages require assignment weights summing to 1.0 instead of
// normalizing them.
func WithStrictWeights(strict bool) Option {
	return func(gb *Gradebook) { gb.strictWeights = strict }
}

// WithScale replaces the default GPA scale.
func WithScale(scale Scale) Option {
	return func(gb *Gradebook) { gb.scale = scale }
}

type Gradebook struct {
	mu sync.RWMutex

	students      map[string]Student
	studentIDs    []string // insertion order
	assignments   map[string]Assignment
	assignmentIDs []string                      // insertion order
	grades        map[string]map[string]float64 // {studentID: {assignmentID: score}}

	strictWeights bool
	scale         Scale
}

func New(opts ...Option) *Gradebook {
	gb := &Gradebook{
		students:    make(map[string]Student),
		assignments: make(map[string]Assignment),
		grades:      make(map[string]map[string]float64),
		scale:       DefaultScale(),
	}
	for _, opt := range opts {
		opt(gb)
	}
	return gb
}

func (gb *Gradebook) StrictWeights() bool { return gb.strictWeights }

func (gb *Gradebook) Scale() Scale {
	return append(Scale(nil), gb.scale...)
}

// Students

func (gb *Gradebook) AddStudent(st Student) error {
	if err := core.Validate.Struct(st); err != nil {
		return core.NewValidationErrorFrom(ErrInvalidStudent, err)
	}

	gb.mu.Lock()
	defer gb.mu.Unlock()

	if _, ok := gb.students[st.ID]; ok {
		return errors.Wrapf(ErrDuplicateEntity, "student %q", st.ID)
	}
	gb.students[st.ID] = st
	gb.studentIDs = append(gb.studentIDs, st.ID)
	if _, ok := gb.grades[st.ID]; !ok {
		gb.grades[st.ID] = make(map[string]float64)
	}
	return nil
}

func (gb *Gradebook) GetStudent(id string) (Student, error) {
	gb.mu.RLock()
	defer gb.mu.RUnlock()
	return gb.getStudent(id)
}

func (gb *Gradebook) getStudent(id string) (Student, error) {
	st, ok := gb.students[id]
	if !ok {
		return Student{}, errors.Wrapf(ErrNotFound, "student %q", id)
	}
	return st, nil
}

func (gb *Gradebook) HasStudent(id string) bool {
	gb.mu.RLock()
	defer gb.mu.RUnlock()
	_, ok := gb.students[id]
	return ok
}

// UpdateStudent replaces the student with a copy of it where the fields set in `su` are overridden.
func (gb *Gradebook) UpdateStudent(id string, su StudentUpdate) (Student, error) {
	gb.mu.Lock()
	defer gb.mu.Unlock()

	st, err := gb.getStudent(id)
	if err != nil {
		return Student{}, err
	}
	st = su.apply(st)
	gb.students[id] = st
	return st, nil
}

// DeleteStudent removes the student and all of their scores.
func (gb *Gradebook) DeleteStudent(id string) error {
	gb.mu.Lock()
	defer gb.mu.Unlock()

	if _, ok := gb.students[id]; !ok {
		return errors.Wrapf(ErrNotFound, "student %q", id)
	}
	delete(gb.students, id)
	delete(gb.grades, id)
	gb.studentIDs = removeID(gb.studentIDs, id)
	return nil
}

// Students returns all students in insertion order.
func (gb *Gradebook) Students() []Student {
	gb.mu.RLock()
	defer gb.mu.RUnlock()

	sts := make([]Student, 0, len(gb.studentIDs))
	for _, id := range gb.studentIDs {
		sts = append(sts, gb.students[id])
	}
	return sts
}

// Assignments

func (gb *Gradebook) AddAssignment(a Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	gb.mu.Lock()
	defer gb.mu.Unlock()

	if _, ok := gb.assignments[a.ID]; ok {
		return errors.Wrapf(ErrDuplicateEntity, "assignment %q", a.ID)
	}
	gb.assignments[a.ID] = a.withDefaults()
	gb.assignmentIDs = append(gb.assignmentIDs, a.ID)
	return nil
}

func (gb *Gradebook) GetAssignment(id string) (Assignment, error) {
	gb.mu.RLock()
	defer gb.mu.RUnlock()
	return gb.getAssignment(id)
}

func (gb *Gradebook) getAssignment(id string) (Assignment, error) {
	a, ok := gb.assignments[id]
	if !ok {
		return Assignment{}, errors.Wrapf(ErrNotFound, "assignment %q", id)
	}
	return a, nil
}

// UpdateAssignment replaces the assignment with a copy of it where the fields set in `au` are
// overridden. The result is validated like a new assignment and max_points may not drop below
// an already recorded score.
func (gb *Gradebook) UpdateAssignment(id string, au AssignmentUpdate) (Assignment, error) {
	gb.mu.Lock()
	defer gb.mu.Unlock()

	a, err := gb.getAssignment(id)
	if err != nil {
		return Assignment{}, err
	}
	a = au.apply(a)
	if err := a.Validate(); err != nil {
		return Assignment{}, err
	}
	for _, row := range gb.grades {
		if score, ok := row[id]; ok && score > a.MaxPoints {
			return Assignment{}, core.NewValidationError(ErrInvalidAssignment, core.FieldError{
				Field: "max_points",
				Error: "max_points is below a recorded score",
			})
		}
	}
	gb.assignments[id] = a
	return a, nil
}

// DeleteAssignment removes the assignment and strips its scores from every student.
func (gb *Gradebook) DeleteAssignment(id string) error {
	gb.mu.Lock()
	defer gb.mu.Unlock()

	if _, ok := gb.assignments[id]; !ok {
		return errors.Wrapf(ErrNotFound, "assignment %q", id)
	}
	delete(gb.assignments, id)
	for _, row := range gb.grades {
		delete(row, id)
	}
	gb.assignmentIDs = removeID(gb.assignmentIDs, id)
	return nil
}

// Assignments returns all assignments in insertion order.
func (gb *Gradebook) Assignments() []Assignment {
	gb.mu.RLock()
	defer gb.mu.RUnlock()
	return gb.orderedAssignments()
}

func (gb *Gradebook) orderedAssignments() []Assignment {
	as := make([]Assignment, 0, len(gb.assignmentIDs))
	for _, id := range gb.assignmentIDs {
		as = append(as, gb.assignments[id])
	}
	return as
}

// Grades

// EnterGrade records (or overwrites) a student's score for an assignment.
func (gb *Gradebook) EnterGrade(studentID, assignmentID string, score float64) error {
	gb.mu.Lock()
	defer gb.mu.Unlock()

	if _, err := gb.getStudent(studentID); err != nil {
		return err
	}
	a, err := gb.getAssignment(assignmentID)
	if err != nil {
		return err
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return errors.Wrap(ErrInvalidGrade, "score must be numeric")
	}
	if score < 0 || score > a.MaxPoints {
		return errors.Wrapf(ErrInvalidGrade, "score must be between 0 and %g", a.MaxPoints)
	}

	row, ok := gb.grades[studentID]
	if !ok {
		row = make(map[string]float64)
		gb.grades[studentID] = row
	}
	row[assignmentID] = score
	return nil
}

// Score returns the recorded score, if any.
func (gb *Gradebook) Score(studentID, assignmentID string) (float64, bool) {
	gb.mu.RLock()
	defer gb.mu.RUnlock()
	score, ok := gb.grades[studentID][assignmentID]
	return score, ok
}

// Grades returns every recorded score, ordered by student then assignment insertion order.
func (gb *Gradebook) Grades() []GradeEntry {
	gb.mu.RLock()
	defer gb.mu.RUnlock()

	entries := make([]GradeEntry, 0)
	for _, sid := range gb.studentIDs {
		row := gb.grades[sid]
		for _, aid := range gb.assignmentIDs {
			if score, ok := row[aid]; ok {
				entries = append(entries, GradeEntry{StudentID: sid, AssignmentID: aid, Score: score})
			}
		}
	}
	return entries
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
