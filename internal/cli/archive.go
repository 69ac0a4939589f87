package cli

import (
	"context"

	"github.com/sdejongh/filekeeper/pkg/output"
	"github.com/spf13/cobra"
)

// NewArchiveCommand creates the archive command
func NewArchiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect the backup archive",
	}

	cmd.AddCommand(newArchiveListCommand())

	return cmd
}

func newArchiveListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the entries of the backup archive in the order they were added",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.archiver.Entries(ctx)
			if err != nil {
				return err
			}
			return output.WriteEntries(a.out, entries, a.cfg.Output.Format)
		},
	}
}
