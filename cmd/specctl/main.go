package main

import (
	"context"
	"fmt"
	"os"

	"github.com/utafrali/productspec/internal/app"
	"github.com/utafrali/productspec/internal/cli"
	"github.com/utafrali/productspec/internal/config"
	"github.com/utafrali/productspec/internal/repository"
	"github.com/utafrali/productspec/pkg/logger"
)

func main() {
	open := func(ctx context.Context) (repository.SnapshotRepository, func() error, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		// Diagnostics go to stderr so stdout stays parseable.
		log := logger.NewWithWriter("specctl", "warn", os.Stderr)
		st, err := app.OpenStorage(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return st.Repo, st.Close, nil
	}

	if err := cli.NewRootCommand(open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
