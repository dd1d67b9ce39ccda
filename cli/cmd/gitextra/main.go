// Command git-extra adds browse, pull request and quick-start
// commands to git.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/byte4ever/git-extra/cli"
	"github.com/byte4ever/git-extra/console"
)

func main() {
	os.Exit(run())
}

func run() int {
	level := new(slog.LevelVar)
	slog.SetDefault(cli.NewLogger(os.Stderr, level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	wd, err := os.Getwd()
	if err != nil {
		slog.Error("fatal", "error", err)

		return cli.ExitError
	}

	tool := &cli.Tool{
		Name:    cli.GitExtraName,
		Log:     console.New(),
		WorkDir: wd,
		Level:   level,
	}

	return tool.Run(ctx, os.Args[1:])
}
