// Command diagbench builds ICD-10 test sets from a clinical protocol corpus
// and scores diagnosis engines against them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/DiagBench/internal/interfaces/cli"
	"github.com/turtacn/DiagBench/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	os.Exit(errors.ExitStatus(err))
}

//Personal.AI order the ending
