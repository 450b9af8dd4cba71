package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/trezcool/gradebook/core"
	logsvc "github.com/trezcool/gradebook/services/logger"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	conf, err := core.NewConfig(wd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	log, err := logsvc.New(conf.LogMode, conf.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	defer log.Sync()

	cli, err := newCommandLine(context.Background(), conf, log)
	if err != nil {
		log.Error("startup failed", "error", err.Error())
		return 1
	}
	defer cli.close()

	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		return 1
	}
	return 0
}
