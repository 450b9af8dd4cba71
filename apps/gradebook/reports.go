package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/user"
	"github.com/trezcool/gradebook/reports"
)

func init() {
	register(command{
		name:  "report",
		usage: "[-student ID] [-format csv|png] [-out PATH] - export a student's report",
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			sid := fs.String("student", "", "Student id. Students default to themselves.")
			format := fs.String("format", "csv", "csv or png.")
			out := fs.String("out", "", "Output file. Defaults to <reports dir>/<student id>_report.<format>.")
			return func(_ context.Context, sess user.Session) error {
				studentID := core.CleanString(*sid)
				if studentID == "" {
					studentID = sess.StudentID
				}
				if studentID == "" {
					return core.NewArgumentError("missing -student")
				}
				if !sess.CanAccessStudent(studentID) {
					return errForbidden
				}

				fmtName := core.CleanString(*format, true /* lower */)
				path := *out
				if path == "" {
					path = filepath.Join(cli.conf.ReportsDir, reports.FileName(studentID, fmtName))
				}

				var err error
				switch fmtName {
				case "csv":
					err = reports.ExportStudentCSV(cli.gb, studentID, path)
				case "png":
					err = reports.ExportStudentPNG(cli.gb, studentID, path)
				default:
					return core.NewArgumentError(fmt.Sprintf("unknown format %q", *format))
				}
				if err != nil {
					return err
				}
				cli.log.Info("report exported", "student_id", studentID, "path", path)
				_, _ = fmt.Fprintf(cli.out, "report written to %s\n", path)
				return nil
			}
		},
	})

	register(command{
		name:    "exportall",
		usage:   "[-dir DIR] - export CSV reports for every student",
		teacher: true,
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			dir := fs.String("dir", "", "Output directory. Defaults to the reports dir.")
			return func(context.Context, user.Session) error {
				outDir := *dir
				if outDir == "" {
					outDir = cli.conf.ReportsDir
				}
				paths, err := reports.ExportAllCSV(cli.gb, outDir)
				if err != nil {
					return err
				}
				cli.log.Info("reports exported", "count", len(paths), "dir", outDir)
				_, _ = fmt.Fprintf(cli.out, "%d CSV reports exported to %s\n", len(paths), outDir)
				return nil
			}
		},
	})
}
