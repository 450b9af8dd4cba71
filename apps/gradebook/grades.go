package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/user"
)

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func init() {
	register(command{
		name:    "grade",
		usage:   "-student ID -assignment ID -score SCORE - enter or overwrite a score",
		teacher: true,
		mutates: true,
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			sid := fs.String("student", "", "Student id.")
			aid := fs.String("assignment", "", "Assignment id.")
			score := fs.String("score", "", "Score between 0 and the assignment's max points.")
			return func(context.Context, user.Session) error {
				if err := requireFlags(fs, "student", "assignment", "score"); err != nil {
					return err
				}
				s, err := gradebook.ParseScore(*score)
				if err != nil {
					return err
				}
				studentID, assignmentID := core.CleanString(*sid), core.CleanString(*aid)
				if err := cli.gb.EnterGrade(studentID, assignmentID, s); err != nil {
					return err
				}
				cli.log.Info("grade entered", "student_id", studentID, "assignment_id", assignmentID, "score", s)
				_, _ = fmt.Fprintf(cli.out, "%s / %s: %g\n", studentID, assignmentID, s)
				return nil
			}
		},
	})

	register(command{
		name:    "curve",
		usage:   "-add POINTS | -scale FACTOR - curve every recorded score, capped at max points",
		teacher: true,
		mutates: true,
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			add := fs.Float64("add", 0, "Points to add to every score.")
			scale := fs.Float64("scale", 1, "Factor to multiply every score by.")
			return func(context.Context, user.Session) error {
				addSet, scaleSet := isSet(fs, "add"), isSet(fs, "scale")
				switch {
				case addSet == scaleSet:
					return core.NewArgumentError("exactly one of -add or -scale is required")
				case !isFinite(*add) || !isFinite(*scale):
					return core.NewArgumentError("-add and -scale must be finite numbers")
				case addSet:
					cli.gb.CurveAdd(*add)
					cli.log.Info("curve applied", "add", *add)
				default:
					cli.gb.CurveScale(*scale)
					cli.log.Info("curve applied", "scale", *scale)
				}
				_, _ = fmt.Fprintln(cli.out, "curve applied")
				return nil
			}
		},
	})

	register(command{
		name:  "summary",
		usage: "[-student ID] - final percentages and GPAs (students see their own only)",
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			sid := fs.String("student", "", "Only this student.")
			return func(_ context.Context, sess user.Session) error {
				studentID := core.CleanString(*sid)
				if !sess.IsTeacher() {
					if studentID == "" {
						studentID = sess.StudentID
					}
					if !sess.CanAccessStudent(studentID) {
						return errForbidden
					}
				}

				students := cli.gb.Students()
				if studentID != "" {
					st, err := cli.gb.GetStudent(studentID)
					if err != nil {
						return err
					}
					students = []gradebook.Student{st}
				}

				w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(w, "ID\tNAME\tFINAL %\tGPA")
				for _, st := range students {
					pct, err := cli.gb.StudentPercentage(st.ID)
					if err != nil {
						return err
					}
					gpa, err := cli.gb.StudentGPA(st.ID)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\n", st.ID, st.FullName(), pct, gpa)
				}
				if sess.IsTeacher() && studentID == "" {
					avg, err := cli.gb.ClassAverage()
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(w, "\t%s\t%.2f\t\n", "Class average", avg)
				}
				return w.Flush()
			}
		},
	})
}
