package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/storage"
)

const dateLayout = "2006-01-02"

type (
	studentRow struct {
		ID        string `db:"student_id"`
		FirstName string `db:"first_name"`
		LastName  string `db:"last_name"`
		Email     string `db:"email"`
		Position  int    `db:"position"`
	}

	assignmentRow struct {
		ID          string         `db:"assignment_id"`
		Name        string         `db:"name"`
		MaxPoints   float64        `db:"max_points"`
		Weight      float64        `db:"weight"`
		Type        string         `db:"type"`
		Due         sql.NullString `db:"due"`
		Description string         `db:"description"`
		Position    int            `db:"position"`
	}

	gradeRow struct {
		StudentID    string  `db:"student_id"`
		AssignmentID string  `db:"assignment_id"`
		Score        float64 `db:"score"`
	}
)

// Backend stores gradebook records in SQL tables.
type Backend struct {
	db *sqlx.DB
}

var _ storage.Backend = (*Backend)(nil)

func NewBackend(db *sqlx.DB) *Backend {
	return &Backend{db: db}
}

func (b *Backend) Read(ctx context.Context) (storage.Records, error) {
	var (
		recs        storage.Records
		students    []studentRow
		assignments []assignmentRow
		grades      []gradeRow
	)

	q := `SELECT student_id, first_name, last_name, email, position FROM students ORDER BY position`
	if err := b.db.SelectContext(ctx, &students, q); err != nil {
		return recs, errors.Wrap(err, "reading students")
	}
	q = `SELECT assignment_id, name, max_points, weight, type, due, description, position
		FROM assignments ORDER BY position`
	if err := b.db.SelectContext(ctx, &assignments, q); err != nil {
		return recs, errors.Wrap(err, "reading assignments")
	}
	q = `SELECT g.student_id, g.assignment_id, g.score
		FROM grades g
		JOIN students s ON s.student_id = g.student_id
		JOIN assignments a ON a.assignment_id = g.assignment_id
		ORDER BY s.position, a.position`
	if err := b.db.SelectContext(ctx, &grades, q); err != nil {
		return recs, errors.Wrap(err, "reading grades")
	}

	for _, r := range students {
		recs.Students = append(recs.Students, gradebook.Student{
			ID:        r.ID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
		})
	}
	for _, r := range assignments {
		a := gradebook.Assignment{
			ID:          r.ID,
			Name:        r.Name,
			MaxPoints:   r.MaxPoints,
			Weight:      r.Weight,
			Type:        gradebook.AssignmentType(r.Type),
			Description: r.Description,
		}
		if r.Due.Valid && r.Due.String != "" {
			due, err := time.Parse(dateLayout, r.Due.String)
			if err != nil {
				return storage.Records{}, errors.Wrapf(err, "assignment %q: due", r.ID)
			}
			a.Due = &due
		}
		recs.Assignments = append(recs.Assignments, a)
	}
	for _, r := range grades {
		recs.Grades = append(recs.Grades, gradebook.GradeEntry{
			StudentID:    r.StudentID,
			AssignmentID: r.AssignmentID,
			Score:        r.Score,
		})
	}
	return recs, nil
}

// Write replaces every stored record in a single transaction.
func (b *Backend) Write(ctx context.Context, recs storage.Records) error {
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"grades", "assignments", "students"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "clearing %s", table)
		}
	}

	q := `INSERT INTO students (student_id, first_name, last_name, email, position)
		VALUES (:student_id, :first_name, :last_name, :email, :position)`
	for i, st := range recs.Students {
		row := studentRow{ID: st.ID, FirstName: st.FirstName, LastName: st.LastName, Email: st.Email, Position: i}
		if _, err := tx.NamedExecContext(ctx, q, row); err != nil {
			return errors.Wrapf(err, "writing student %q", st.ID)
		}
	}

	q = `INSERT INTO assignments (assignment_id, name, max_points, weight, type, due, description, position)
		VALUES (:assignment_id, :name, :max_points, :weight, :type, :due, :description, :position)`
	for i, a := range recs.Assignments {
		row := assignmentRow{
			ID:          a.ID,
			Name:        a.Name,
			MaxPoints:   a.MaxPoints,
			Weight:      a.Weight,
			Type:        string(a.Type),
			Description: a.Description,
			Position:    i,
		}
		if a.Due != nil {
			row.Due = sql.NullString{String: a.Due.Format(dateLayout), Valid: true}
		}
		if _, err := tx.NamedExecContext(ctx, q, row); err != nil {
			return errors.Wrapf(err, "writing assignment %q", a.ID)
		}
	}

	q = `INSERT INTO grades (student_id, assignment_id, score) VALUES (:student_id, :assignment_id, :score)`
	for _, g := range recs.Grades {
		row := gradeRow{StudentID: g.StudentID, AssignmentID: g.AssignmentID, Score: g.Score}
		if _, err := tx.NamedExecContext(ctx, q, row); err != nil {
			return errors.Wrapf(err, "writing grade %s/%s", g.StudentID, g.AssignmentID)
		}
	}

	return errors.Wrap(tx.Commit(), "committing")
}
