package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/user"
)

// studentInput validates what the gradebook leaves to its callers.
type studentInput struct {
	ID    string `json:"student_id" validate:"required,identifier"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (in studentInput) validate() error {
	return core.NewValidationErrorFrom(gradebook.ErrInvalidStudent, core.Validate.Struct(in))
}

func init() {
	register(command{
		name:    "students",
		usage:   "list students",
		teacher: true,
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			return func(context.Context, user.Session) error {
				w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(w, "ID\tFIRST NAME\tLAST NAME\tEMAIL")
				for _, st := range cli.gb.Students() {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.ID, st.FirstName, st.LastName, st.Email)
				}
				return w.Flush()
			}
		},
	})

	register(command{
		name:    "addstudent",
		usage:   "-id ID -first NAME -last NAME [-email EMAIL] - add a student",
		teacher: true,
		mutates: true,
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			id := fs.String("id", "", "Student id.")
			first := fs.String("first", "", "First name. Also the student's initial password.")
			last := fs.String("last", "", "Last name.")
			email := fs.String("email", "", "Email address.")
			return func(context.Context, user.Session) error {
				if err := requireFlags(fs, "id", "first", "last"); err != nil {
					return err
				}
				st := gradebook.Student{
					ID:        core.CleanString(*id),
					FirstName: core.CleanString(*first),
					LastName:  core.CleanString(*last),
					Email:     core.CleanString(*email, true /* lower */),
				}
				if err := (studentInput{ID: st.ID, Email: st.Email}).validate(); err != nil {
					return err
				}
				if err := cli.gb.AddStudent(st); err != nil {
					return err
				}
				if _, err := cli.users.EnsureDefaults([]gradebook.Student{st}); err != nil {
					return err
				}
				cli.log.Info("student added", "student_id", st.ID)
				_, _ = fmt.Fprintf(cli.out, "added %s\n", st)
				return nil
			}
		},
	})

	register(command{
		name:    "updatestudent",
		usage:   "-id ID [-first NAME] [-last NAME] [-email EMAIL] - update a student",
		teacher: true,
		mutates: true,
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			id := fs.String("id", "", "Student id.")
			first := fs.String("first", "", "New first name.")
			last := fs.String("last", "", "New last name.")
			email := fs.String("email", "", "New email address.")
			return func(context.Context, user.Session) error {
				if err := requireFlags(fs, "id"); err != nil {
					return err
				}
				var su gradebook.StudentUpdate
				if isSet(fs, "first") {
					v := core.CleanString(*first)
					su.FirstName = &v
				}
				if isSet(fs, "last") {
					v := core.CleanString(*last)
					su.LastName = &v
				}
				if isSet(fs, "email") {
					v := core.CleanString(*email, true /* lower */)
					if err := (studentInput{ID: *id, Email: v}).validate(); err != nil {
						return err
					}
					su.Email = &v
				}
				st, err := cli.gb.UpdateStudent(core.CleanString(*id), su)
				if err != nil {
					return err
				}
				cli.log.Info("student updated", "student_id", st.ID)
				_, _ = fmt.Fprintf(cli.out, "updated %s\n", st)
				return nil
			}
		},
	})

	register(command{
		name:    "delstudent",
		usage:   "-id ID - delete a student and their grades",
		teacher: true,
		mutates: true,
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			id := fs.String("id", "", "Student id.")
			return func(context.Context, user.Session) error {
				if err := requireFlags(fs, "id"); err != nil {
					return err
				}
				sid := core.CleanString(*id)
				if err := cli.gb.DeleteStudent(sid); err != nil {
					return err
				}
				cli.log.Info("student deleted", "student_id", sid)
				_, _ = fmt.Fprintf(cli.out, "deleted student %s\n", sid)
				return nil
			}
		},
	})
}
