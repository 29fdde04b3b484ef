// Command ledger is the operator CLI: it runs the same pipelines as the HTTP
// API against the configured database.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"

	"ledgerly/internal/logger"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range ledgerCommands {
		commander.Register(c, "ledger")
	}
	for _, c := range marketCommands {
		commander.Register(c, "market")
	}
	for _, c := range expenseCommands {
		commander.Register(c, "expenses")
	}
	commander.Register(&runsCmd{}, "")

	flag.Parse()
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	logger.Sync()
	os.Exit(int(status))
}
