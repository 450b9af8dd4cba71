package main

import (
	"context"
	"flag"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/user"
	"github.com/trezcool/gradebook/storage/database"
)

var (
	defaultMigrateFunc = database.Migrate
	migrateFunc        = defaultMigrateFunc // mockable
)

func init() {
	register(command{
		name:    "migrate",
		usage:   "COMMAND [ARGS] - run a goose migration command (up, down, status, version...) on SQL storage",
		teacher: true,
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			return func(ctx context.Context, _ user.Session) error {
				if cli.db == nil {
					return core.NewArgumentError("migrate needs sqlite or postgres storage")
				}
				args := fs.Args()
				if len(args) == 0 {
					return errHelp
				}
				return migrateFunc(ctx, cli.db, cli.log, args[0], args[1:]...)
			}
		},
	})
}
