package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewUndoCommand creates the undo command
func NewUndoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Restore backed up files into the recovery directory",
		Long: `Extract the backup archive into the recovery directory
(paths.restore_dir, default backup/undo_restore).

Every file ever backed up is restored, not only the last batch. When the same
file name was backed up more than once the latest copy wins. Files are not
put back at their original location.`,
		RunE: runUndo,
	}
}

func runUndo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.restorer().RestoreLast(ctx)
	if err != nil {
		return err
	}

	if a.cfg.Output.Quiet {
		return nil
	}
	return a.formatter.Restore(a.out, result)
}
