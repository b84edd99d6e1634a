package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utafrali/productspec/internal/domain"
	"github.com/utafrali/productspec/internal/repository"
	apperrors "github.com/utafrali/productspec/pkg/errors"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the durable record",
		Long: `Print the stored snapshot (product, specs, variants).

A missing record prints an empty snapshot and a note on stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd.Context(), rootOpts, func(repo repository.SnapshotRepository) error {
				return runShow(cmd, rootOpts, repo)
			})
		},
	}
}

func runShow(cmd *cobra.Command, opts *RootOptions, repo repository.SnapshotRepository) error {
	snapshot, err := repo.Load(cmd.Context())
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound):
		fmt.Fprintf(cmd.ErrOrStderr(), "no record stored at key %q\n", repo.Key())
		empty := domain.EmptySnapshot()
		snapshot = &empty
	case errors.Is(err, repository.ErrCorrupt):
		return WrapExitError(ExitFailure, fmt.Sprintf("record at key %q is corrupt", repo.Key()), err)
	default:
		return WrapExitError(ExitCommandError, "load record", err)
	}

	return writeValue(cmd.OutOrStdout(), opts.Output, snapshot)
}
