package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/user"
)

const dateLayout = "2006-01-02"

func parseDue(s string) (*time.Time, error) {
	due, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil, core.NewArgumentError(fmt.Sprintf("-due %q must be a %s date", s, dateLayout))
	}
	return &due, nil
}

func parseType(s string) gradebook.AssignmentType {
	return gradebook.AssignmentType(core.CleanString(s, true /* lower */))
}

func newAssignmentID() string {
	return "a-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

func init() {
	register(command{
		name:  "assignments",
		usage: "list assignments",
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			return func(context.Context, user.Session) error {
				w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(w, "ID\tNAME\tTYPE\tMAX\tWEIGHT\tDUE")
				for _, a := range cli.gb.Assignments() {
					due := "-"
					if a.Due != nil {
						due = a.Due.Format(dateLayout)
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%s\n", a.ID, a.Name, a.Type, a.MaxPoints, a.Weight, due)
				}
				return w.Flush()
			}
		},
	})

	register(command{
		name:    "addassignment",
		usage:   "-name NAME -max POINTS -weight W [-id ID] [-type TYPE] [-due YYYY-MM-DD] [-desc TEXT] - add an assignment",
		teacher: true,
		mutates: true,
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			id := fs.String("id", "", "Assignment id. Generated when empty.")
			name := fs.String("name", "", "Name.")
			maxPoints := fs.Float64("max", 100, "Maximum points.")
			weight := fs.Float64("weight", 0, "Weight between 0 and 1.")
			typ := fs.String("type", string(gradebook.TypeGeneric), "One of quiz, exam, project, homework, generic.")
			due := fs.String("due", "", "Due date.")
			desc := fs.String("desc", "", "Description.")
			return func(context.Context, user.Session) error {
				if err := requireFlags(fs, "name"); err != nil {
					return err
				}
				aid := core.CleanString(*id)
				if aid == "" {
					aid = newAssignmentID()
				}
				a, err := gradebook.NewAssignment(aid, core.CleanString(*name), *maxPoints, *weight, parseType(*typ))
				if err != nil {
					return err
				}
				a.Description = strings.TrimSpace(*desc)
				if *due != "" {
					if a.Due, err = parseDue(*due); err != nil {
						return err
					}
				}
				if err := cli.gb.AddAssignment(a); err != nil {
					return err
				}
				cli.log.Info("assignment added", "assignment_id", a.ID)
				_, _ = fmt.Fprintf(cli.out, "added assignment %s: %s\n", a.ID, a)
				return nil
			}
		},
	})

	register(command{
		name:    "updateassignment",
		usage:   "-id ID [-name NAME] [-max POINTS] [-weight W] [-type TYPE] [-due YYYY-MM-DD] [-desc TEXT] - update an assignment",
		teacher: true,
		mutates: true,
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			id := fs.String("id", "", "Assignment id.")
			name := fs.String("name", "", "New name.")
			maxPoints := fs.Float64("max", 0, "New maximum points.")
			weight := fs.Float64("weight", 0, "New weight between 0 and 1.")
			typ := fs.String("type", "", "New type.")
			due := fs.String("due", "", "New due date.")
			desc := fs.String("desc", "", "New description.")
			return func(context.Context, user.Session) error {
				if err := requireFlags(fs, "id"); err != nil {
					return err
				}
				var au gradebook.AssignmentUpdate
				if isSet(fs, "name") {
					v := core.CleanString(*name)
					au.Name = &v
				}
				if isSet(fs, "max") {
					au.MaxPoints = maxPoints
				}
				if isSet(fs, "weight") {
					au.Weight = weight
				}
				if isSet(fs, "type") {
					v := parseType(*typ)
					au.Type = &v
				}
				if isSet(fs, "due") {
					d, err := parseDue(*due)
					if err != nil {
						return err
					}
					au.Due = d
				}
				if isSet(fs, "desc") {
					v := strings.TrimSpace(*desc)
					au.Description = &v
				}
				a, err := cli.gb.UpdateAssignment(core.CleanString(*id), au)
				if err != nil {
					return err
				}
				cli.log.Info("assignment updated", "assignment_id", a.ID)
				_, _ = fmt.Fprintf(cli.out, "updated assignment %s: %s\n", a.ID, a)
				return nil
			}
		},
	})

	register(command{
		name:    "delassignment",
		usage:   "-id ID - delete an assignment and its grades",
		teacher: true,
		mutates: true,
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			id := fs.String("id", "", "Assignment id.")
			return func(context.Context, user.Session) error {
				if err := requireFlags(fs, "id"); err != nil {
					return err
				}
				aid := core.CleanString(*id)
				if err := cli.gb.DeleteAssignment(aid); err != nil {
					return err
				}
				cli.log.Info("assignment deleted", "assignment_id", aid)
				_, _ = fmt.Fprintf(cli.out, "deleted assignment %s\n", aid)
				return nil
			}
		},
	})
}
