package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/gradebook"
)

var csvHeader = []string{"student_id", "name", "assignment_id", "assignment_name", "score", "max_points", "weight", "percent"}

func WriteCSV(w io.Writer, r StudentReport) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, row := range r.Rows {
		_ = cw.Write([]string{
			r.Student.ID,
			r.Student.FullName(),
			row.AssignmentID,
			row.AssignmentName,
			fmt.Sprintf("%.2f", row.Score),
			fmt.Sprintf("%.2f", row.MaxPoints),
			fmt.Sprintf("%.3f", row.Weight),
			fmt.Sprintf("%.2f", row.Percent),
		})
	}
	_ = cw.Write(nil)
	_ = cw.Write([]string{"Final %", fmt.Sprintf("%.2f", r.FinalPercent)})
	_ = cw.Write([]string{"GPA", fmt.Sprintf("%.2f", r.GPA)})
	cw.Flush()
	return cw.Error()
}

// ExportStudentCSV writes the student's report to path, creating parent directories.
func ExportStudentCSV(gb *gradebook.Gradebook, studentID, path string) error {
	r, err := Build(gb, studentID)
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error { return WriteCSV(w, r) })
}

// FileName is `<student_id>_report.<ext>`. Ids loaded from files are not validated, so anything
// that would leave the target directory is stripped first.
func FileName(studentID, ext string) string {
	name := filepath.Base(filepath.Clean(string(filepath.Separator) + studentID))
	if name == string(filepath.Separator) || name == "." {
		name = "student"
	}
	return name + "_report." + ext
}

// ExportAllCSV writes `<student_id>_report.csv` for every student into dir and returns the paths.
func ExportAllCSV(gb *gradebook.Gradebook, dir string) ([]string, error) {
	students := gb.Students()
	paths := make([]string, 0, len(students))
	for _, st := range students {
		path := filepath.Join(dir, FileName(st.ID, "csv"))
		if err := ExportStudentCSV(gb, st.ID, path); err != nil {
			return paths, errors.Wrapf(err, "student %q", st.ID)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating report dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating report")
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "writing report")
	}
	return errors.Wrap(f.Close(), "writing report")
}
