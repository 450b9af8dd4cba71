package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/trezcool/gradebook/core/user"
)

func init() {
	register(command{
		name:  "passwd",
		usage: "change the password of the logged in account",
		setup: func(cli *commandLine, fs *flag.FlagSet) func(context.Context, user.Session) error {
			return func(_ context.Context, sess user.Session) error {
				// the login prompt already asked for the current password
				cur := cli.lastPassword
				pwd, err := cli.prompt("New password:")
				if err != nil {
					return err
				}
				confirm, err := cli.prompt("Confirm new password:")
				if err != nil {
					return err
				}
				err = cli.users.ChangePassword(sess, user.ChangePassword{
					Current:         cur,
					Password:        pwd,
					PasswordConfirm: confirm,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cli.out, "password updated")
				return nil
			}
		},
	})
}
