package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/user"
	"github.com/trezcool/gradebook/storage"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp      = errors.New("help provided")
	errForbidden = errors.New("permission denied")
)

type commandLine struct {
	conf    *core.Config
	log     core.Logger
	out     io.Writer
	gb      *gradebook.Gradebook
	backend storage.Backend
	users   *user.Service
	db      *sqlx.DB // nil with csv storage

	lastPassword string // typed at the login prompt
}

// command is one subcommand. setup registers the command's flags and returns the function that
// runs it once the flags are parsed and the session is open.
type command struct {
	name    string
	usage   string
	teacher bool // teacher sessions only
	mutates bool // save the gradebook after a successful run
	setup   func(cli *commandLine, fs *flag.FlagSet) func(ctx context.Context, sess user.Session) error
}

var commands = map[string]command{}

func register(cmd command) {
	commands[cmd.name] = cmd
}

func (cli *commandLine) printUsage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	_, _ = fmt.Fprintln(cli.out, "Usage: gradebook COMMAND [-role teacher|student] [-user USERNAME] [flags]")
	_, _ = fmt.Fprintln(cli.out, "The password is prompted. Students log in with their student id.")
	_, _ = fmt.Fprintln(cli.out, "Commands:")
	for _, name := range names {
		cmd := commands[name]
		_, _ = fmt.Fprintf(cli.out, "  %-17s %s\n", name, cmd.usage)
	}
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	cmd, ok := commands[args[1]]
	if !ok {
		cli.printUsage()
		return errHelp
	}

	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	roleFlag := fs.String("role", string(user.RoleTeacher), "Log in as teacher or student.")
	userFlag := fs.String("user", "", "Username; the student id for students. Defaults to the configured teacher.")
	runFunc := cmd.setup(cli, fs)
	if err := fs.Parse(args[2:]); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return core.NewArgumentError(err.Error())
	}

	sess, err := cli.login(*roleFlag, *userFlag)
	if err != nil {
		return err
	}
	if cmd.teacher && !sess.IsTeacher() {
		cli.log.Warn("forbidden command", "command", cmd.name, "username", sess.Username)
		return errForbidden
	}

	ctx := context.Background()
	if err := runFunc(ctx, sess); err != nil {
		var argErr *core.ArgumentError
		if errors.Is(err, errHelp) || errors.As(err, &argErr) {
			fs.Usage()
		}
		return err
	}
	if cmd.mutates {
		if err := storage.Save(ctx, cli.backend, cli.gb); err != nil {
			return err
		}
		cli.log.Debug("gradebook saved", "command", cmd.name)
	}
	return nil
}

func (cli *commandLine) login(roleName, username string) (user.Session, error) {
	role, err := user.ParseRole(roleName)
	if err != nil {
		return user.Session{}, core.NewArgumentError(err.Error())
	}
	if username == "" {
		if role != user.RoleTeacher {
			return user.Session{}, core.NewArgumentError("-user is required for students")
		}
		username = cli.conf.DefaultTeacherUsername
	}

	pwd, err := cli.prompt("Enter password:")
	if err != nil {
		return user.Session{}, err
	}
	sess, err := cli.users.Login(role, username, pwd)
	if err != nil {
		cli.log.Warn("login failed", "role", role, "username", username, "error", err.Error())
		return user.Session{}, err
	}
	cli.lastPassword = pwd
	return sess, nil
}

func (cli *commandLine) prompt(label string) (string, error) {
	_, _ = fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// requireFlags fails with an ArgumentError naming the flags left empty.
func requireFlags(fs *flag.FlagSet, names ...string) error {
	missing := make([]string, 0)
	for _, name := range names {
		if strings.TrimSpace(fs.Lookup(name).Value.String()) == "" {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) > 0 {
		return core.NewArgumentError("missing " + strings.Join(missing, ", "))
	}
	return nil
}

// isSet reports whether the flag was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
