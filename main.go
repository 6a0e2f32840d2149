package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"edocta/edocta-csv/cmd/batch"
	"edocta/edocta-csv/cmd/categorize"
	"edocta/edocta-csv/cmd/convert"
	"edocta/edocta-csv/cmd/importer"
	"edocta/edocta-csv/cmd/profiles"
	"edocta/edocta-csv/cmd/root"
	"edocta/edocta-csv/internal/config"
	"edocta/edocta-csv/internal/parsererror"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load .env before anything reads the environment
	config.LoadEnv()

	// 2. Set the global level so nothing logs below it before the config is read
	logrus.SetLevel(config.LogLevelFromEnv())

	// 3. Register subcommands
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(importer.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(profiles.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.Cmd.ExecuteContext(ctx)
	stop()

	if cerr := root.Shutdown(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", parsererror.KindOf(err), err)
		os.Exit(1)
	}
}
