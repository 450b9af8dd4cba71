// Package reports builds per-student grade reports and exports them as CSV files or PNG cards.
package reports

import (
	"github.com/trezcool/gradebook/core/gradebook"
)

type Row struct {
	AssignmentID   string
	AssignmentName string
	Type           gradebook.AssignmentType
	Score          float64 // 0 when ungraded
	Graded         bool
	MaxPoints      float64
	Weight         float64
	Percent        float64
}

type StudentReport struct {
	Student      gradebook.Student
	Rows         []Row
	FinalPercent float64
	GPA          float64
}

// Build collects a student's scores for every assignment, in assignment order.
func Build(gb *gradebook.Gradebook, studentID string) (StudentReport, error) {
	st, err := gb.GetStudent(studentID)
	if err != nil {
		return StudentReport{}, err
	}
	final, err := gb.StudentPercentage(studentID)
	if err != nil {
		return StudentReport{}, err
	}
	gpa, err := gb.StudentGPA(studentID)
	if err != nil {
		return StudentReport{}, err
	}

	assignments := gb.Assignments()
	r := StudentReport{
		Student:      st,
		Rows:         make([]Row, 0, len(assignments)),
		FinalPercent: final,
		GPA:          gpa,
	}
	for _, a := range assignments {
		score, graded := gb.Score(studentID, a.ID)
		r.Rows = append(r.Rows, Row{
			AssignmentID:   a.ID,
			AssignmentName: a.Name,
			Type:           a.Type,
			Score:          score,
			Graded:         graded,
			MaxPoints:      a.MaxPoints,
			Weight:         a.Weight,
			Percent:        score / a.MaxPoints * 100.0,
		})
	}
	return r, nil
}
