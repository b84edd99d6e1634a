package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/utafrali/productspec/internal/repository"
)

// Opener opens the durable record. The returned close func releases whatever
// backs it.
type Opener func(ctx context.Context) (repository.SnapshotRepository, func() error, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Output string // "json" | "yaml"
	open   Opener
}

// ValidOutputs defines the allowed output formats.
var ValidOutputs = []string{"json", "yaml"}

// NewRootCommand creates the root command for specctl.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "specctl",
		Short: "Inspect and reset the productspec durable record",
		Long: `specctl reads the same configuration as the productspec server
(STORE_BACKEND, STORE_KEY, REDIS_ADDR, ...) and operates on the durable
record directly, without going through the HTTP API.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidOutputs, opts.Output) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid output %q: must be one of %v", opts.Output, ValidOutputs))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "json", "output format (json|yaml)")

	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))

	return cmd
}

// withRepository opens the record, runs fn and closes it again.
func withRepository(ctx context.Context, opts *RootOptions, fn func(repository.SnapshotRepository) error) error {
	repo, closeFn, err := opts.open(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "open durable record", err)
	}
	defer func() { _ = closeFn() }()

	return fn(repo)
}
