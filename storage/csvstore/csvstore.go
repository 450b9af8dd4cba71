// Package csvstore keeps the gradebook in flat CSV files inside a data directory.
//
//	students.csv     student_id,first_name,last_name,email
//	assignments.csv  assignment_id,name,max_points,weight,type,due,description
//	grades.csv       student_id,assignment_id,score
//	passwords.csv    role,username,password_hash
//
// A `sample_` prefixed copy of the first three files seeds a data directory that has no live
// file of that kind yet.
package csvstore

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/storage"
)

const (
	StudentsFile    = "students.csv"
	AssignmentsFile = "assignments.csv"
	GradesFile      = "grades.csv"
	PasswordsFile   = "passwords.csv"

	samplePrefix = "sample_"
	dateLayout   = "2006-01-02"
)

var (
	studentsHeader    = []string{"student_id", "first_name", "last_name", "email"}
	assignmentsHeader = []string{"assignment_id", "name", "max_points", "weight", "type", "due", "description"}
	gradesHeader      = []string{"student_id", "assignment_id", "score"}

	errMissingColumn = errors.New("missing column")
)

type Store struct {
	dir string
	log core.Logger
}

var _ storage.Backend = (*Store)(nil)

func New(dir string, log core.Logger) *Store {
	return &Store{dir: dir, log: log}
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Read loads all three collections. Missing files are empty; malformed rows are skipped.
func (s *Store) Read(_ context.Context) (storage.Records, error) {
	var recs storage.Records

	err := s.readKind(StudentsFile, func(row row) error {
		st, err := parseStudent(row)
		if err == nil {
			recs.Students = append(recs.Students, st)
		}
		return err
	})
	if err != nil {
		return storage.Records{}, err
	}

	err = s.readKind(AssignmentsFile, func(row row) error {
		a, err := parseAssignment(row)
		if err == nil {
			recs.Assignments = append(recs.Assignments, a)
		}
		return err
	})
	if err != nil {
		return storage.Records{}, err
	}

	err = s.readKind(GradesFile, func(row row) error {
		g, err := parseGrade(row)
		if err == nil {
			recs.Grades = append(recs.Grades, g)
		}
		return err
	})
	if err != nil {
		return storage.Records{}, err
	}
	return recs, nil
}

// readKind reads the live file, or its sample seed when there is no live file.
func (s *Store) readKind(name string, fn func(row) error) error {
	for _, candidate := range []string{name, samplePrefix + name} {
		err := s.readFile(s.path(candidate), fn)
		if os.IsNotExist(errors.Cause(err)) {
			continue
		}
		return err
	}
	return nil
}

func (s *Store) readFile(path string, fn func(row) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "reading %s", filepath.Base(path))
	}
	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var pErr *csv.ParseError
			if !errors.As(err, &pErr) {
				return errors.Wrapf(err, "reading %s", filepath.Base(path))
			}
			s.log.Warn("skipping malformed row", "file", filepath.Base(path), "line", pErr.Line, "error", err.Error())
			continue
		}
		line, _ := r.FieldPos(0)
		if isBlank(rec) {
			continue
		}
		if err := fn(row{cols: cols, rec: rec}); err != nil {
			if errors.Cause(err) == errMissingColumn {
				return errors.Wrapf(err, "reading %s", filepath.Base(path))
			}
			s.log.Warn("skipping malformed row", "file", filepath.Base(path), "line", line, "error", err.Error())
		}
	}
}

// Write replaces the three data files. Each file is written to a temporary file first.
func (s *Store) Write(_ context.Context, recs storage.Records) error {
	students := make([][]string, 0, len(recs.Students))
	for _, st := range recs.Students {
		students = append(students, []string{st.ID, st.FirstName, st.LastName, st.Email})
	}
	if err := s.writeFile(StudentsFile, studentsHeader, students); err != nil {
		return err
	}

	assignments := make([][]string, 0, len(recs.Assignments))
	for _, a := range recs.Assignments {
		var due string
		if a.Due != nil {
			due = a.Due.Format(dateLayout)
		}
		assignments = append(assignments, []string{
			a.ID, a.Name, formatFloat(a.MaxPoints), formatFloat(a.Weight), string(a.Type), due, a.Description,
		})
	}
	if err := s.writeFile(AssignmentsFile, assignmentsHeader, assignments); err != nil {
		return err
	}

	grades := make([][]string, 0, len(recs.Grades))
	for _, g := range recs.Grades {
		grades = append(grades, []string{g.StudentID, g.AssignmentID, formatFloat(g.Score)})
	}
	return s.writeFile(GradesFile, gradesHeader, grades)
}

func (s *Store) writeFile(name string, header []string, rows [][]string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "creating data dir")
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := csv.NewWriter(tmp)
	_ = w.Write(header)
	_ = w.WriteAll(rows) // flushes
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), s.path(name)), "writing %s", name)
}

// row reads CSV fields by header name.
type row struct {
	cols map[string]int
	rec  []string
}

func (r row) get(col string) string {
	if i, ok := r.cols[col]; ok && i < len(r.rec) {
		return strings.TrimSpace(r.rec[i])
	}
	return ""
}

func (r row) has(col string) bool {
	_, ok := r.cols[col]
	return ok
}

func (r row) require(cols ...string) error {
	for _, col := range cols {
		if !r.has(col) {
			return errors.Wrap(errMissingColumn, col)
		}
	}
	return nil
}

func (r row) float(col string, def float64) (float64, error) {
	v := r.get(col)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Errorf("%s: %q is not a number", col, v)
	}
	return f, nil
}

func parseStudent(r row) (gradebook.Student, error) {
	if err := r.require("student_id"); err != nil {
		return gradebook.Student{}, err
	}
	st := gradebook.Student{
		ID:        r.get("student_id"),
		FirstName: r.get("first_name"),
		LastName:  r.get("last_name"),
		Email:     r.get("email"),
	}
	if st.ID == "" {
		return gradebook.Student{}, errors.New("empty student_id")
	}
	return st, nil
}

func parseAssignment(r row) (gradebook.Assignment, error) {
	if err := r.require("assignment_id", "name"); err != nil {
		return gradebook.Assignment{}, err
	}
	a := gradebook.Assignment{
		ID:          r.get("assignment_id"),
		Name:        r.get("name"),
		Type:        gradebook.AssignmentType(strings.ToLower(r.get("type"))),
		Description: r.get("description"),
	}
	if a.ID == "" {
		return gradebook.Assignment{}, errors.New("empty assignment_id")
	}
	var err error
	if a.MaxPoints, err = r.float("max_points", 100); err != nil {
		return gradebook.Assignment{}, err
	}
	if a.Weight, err = r.float("weight", 0); err != nil {
		return gradebook.Assignment{}, err
	}
	if v := r.get("due"); v != "" {
		due, err := time.Parse(dateLayout, v)
		if err != nil {
			return gradebook.Assignment{}, errors.Errorf("due: %q is not a %s date", v, dateLayout)
		}
		a.Due = &due
	}
	return a, nil
}

func parseGrade(r row) (gradebook.GradeEntry, error) {
	if err := r.require("student_id", "assignment_id", "score"); err != nil {
		return gradebook.GradeEntry{}, err
	}
	score, err := gradebook.ParseScore(r.get("score"))
	if err != nil {
		return gradebook.GradeEntry{}, err
	}
	return gradebook.GradeEntry{
		StudentID:    r.get("student_id"),
		AssignmentID: r.get("assignment_id"),
		Score:        score,
	}, nil
}

// formatFloat writes the shortest text that reads back as the same float.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
