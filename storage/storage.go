// Package storage moves gradebook records between a Gradebook and a persistence backend.
package storage

import (
	"context"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
)

// Records is a flat copy of a gradebook's collections.
type Records struct {
	Students    []gradebook.Student
	Assignments []gradebook.Assignment
	Grades      []gradebook.GradeEntry
}

type Backend interface {
	Read(ctx context.Context) (Records, error)
	// Write replaces everything previously written.
	Write(ctx context.Context, recs Records) error
}

type MergeStats struct {
	Students    int
	Assignments int
	Grades      int
	Skipped     int
}

// Merge feeds students, then assignments, then grades into gb. A record the store rejects is
// logged and skipped; the rest still load.
func Merge(gb *gradebook.Gradebook, recs Records, log core.Logger) MergeStats {
	var stats MergeStats
	skip := func(kind string, err error, args ...interface{}) {
		stats.Skipped++
		log.Warn("skipping "+kind, append(args, "error", err.Error())...)
	}

	for _, st := range recs.Students {
		if err := gb.AddStudent(st); err != nil {
			skip("student", err, "student_id", st.ID)
			continue
		}
		stats.Students++
	}
	for _, a := range recs.Assignments {
		if err := gb.AddAssignment(a); err != nil {
			skip("assignment", err, "assignment_id", a.ID)
			continue
		}
		stats.Assignments++
	}
	for _, g := range recs.Grades {
		if err := gb.EnterGrade(g.StudentID, g.AssignmentID, g.Score); err != nil {
			skip("grade", err, "student_id", g.StudentID, "assignment_id", g.AssignmentID)
			continue
		}
		stats.Grades++
	}
	return stats
}

// Snapshot copies the current collections of gb, in insertion order.
func Snapshot(gb *gradebook.Gradebook) Records {
	return Records{
		Students:    gb.Students(),
		Assignments: gb.Assignments(),
		Grades:      gb.Grades(),
	}
}

// Load reads the backend and merges its records into gb.
func Load(ctx context.Context, b Backend, gb *gradebook.Gradebook, log core.Logger) (MergeStats, error) {
	recs, err := b.Read(ctx)
	if err != nil {
		return MergeStats{}, err
	}
	stats := Merge(gb, recs, log)
	log.Debug("gradebook loaded",
		"students", stats.Students,
		"assignments", stats.Assignments,
		"grades", stats.Grades,
		"skipped", stats.Skipped,
	)
	return stats, nil
}

// Save writes a snapshot of gb to the backend.
func Save(ctx context.Context, b Backend, gb *gradebook.Gradebook) error {
	return b.Write(ctx, Snapshot(gb))
}
