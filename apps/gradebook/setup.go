package main

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/user"
	"github.com/trezcool/gradebook/storage"
	"github.com/trezcool/gradebook/storage/csvstore"
	"github.com/trezcool/gradebook/storage/database"
)

// newCommandLine opens the configured storage, loads the gradebook and makes sure every student
// has an account.
func newCommandLine(ctx context.Context, conf *core.Config, log core.Logger) (*commandLine, error) {
	scale, err := gradebook.ParseScale(conf.GPAScale)
	if err != nil {
		return nil, err
	}
	cli := &commandLine{
		conf: conf,
		log:  log,
		out:  os.Stdout,
		gb: gradebook.New(
			gradebook.WithStrictWeights(conf.StrictWeights),
			gradebook.WithScale(scale),
		),
	}

	var accounts user.Repository
	switch conf.Storage.Driver {
	case "", "csv":
		store := csvstore.New(conf.DataDir, log)
		repo := csvstore.NewAccountRepository(store)
		if _, err := repo.HashLegacyPasswords(); err != nil {
			return nil, err
		}
		cli.backend = store
		accounts = repo
	case database.DriverSQLite, database.DriverPostgres:
		db, err := database.Open(ctx, conf.Storage)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db, log, "up"); err != nil {
			_ = db.Close()
			return nil, err
		}
		cli.db = db
		cli.backend = database.NewBackend(db)
		accounts = database.NewAccountRepository(db)
	default:
		return nil, errors.Errorf("unsupported storage driver %q", conf.Storage.Driver)
	}

	if _, err := storage.Load(ctx, cli.backend, cli.gb, log); err != nil {
		cli.close()
		return nil, err
	}

	cli.users = user.NewService(accounts, cli.gb, log).
		WithDefaultTeacher(conf.DefaultTeacherUsername, conf.DefaultTeacherPassword)
	if _, err := cli.users.EnsureDefaults(cli.gb.Students()); err != nil {
		cli.close()
		return nil, errors.Wrap(err, "creating default accounts")
	}
	return cli, nil
}

func (cli *commandLine) close() {
	if cli.db != nil {
		_ = cli.db.Close()
	}
}
