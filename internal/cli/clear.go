package cli

import (
	"github.com/spf13/cobra"

	"github.com/utafrali/productspec/internal/repository"
)

// ClearOptions holds flags for the clear command.
type ClearOptions struct {
	Yes bool
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the durable record",
		Long: `Delete the durable record key. A running server keeps its in-memory
session until it is restarted or cleared through the API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Yes {
				return NewExitError(ExitCommandError, "refusing to delete the record without --yes")
			}
			return withRepository(cmd.Context(), rootOpts, func(repo repository.SnapshotRepository) error {
				if err := repo.Delete(cmd.Context()); err != nil {
					return WrapExitError(ExitFailure, "delete record", err)
				}
				return writeValue(cmd.OutOrStdout(), rootOpts.Output, map[string]any{
					"key":     repo.Key(),
					"cleared": true,
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "confirm deletion")

	return cmd
}
