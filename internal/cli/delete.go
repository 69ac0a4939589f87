package cli

import (
	"context"
	"fmt"

	"github.com/sdejongh/filekeeper/pkg/models"
	"github.com/spf13/cobra"
)

// DeleteFlags holds delete command flags
type DeleteFlags struct {
	Source    string
	Extension string
	Yes       bool
	Report    reportFlags
}

var deleteFlags DeleteFlags

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete files with an extension",
		Long: `Delete every file directly inside the source directory whose name ends
with the extension. Each file is added to the backup archive before it is
removed, so "filekeeper undo" can bring it back.`,
		Example: "  filekeeper delete -s ./build -e tmp --yes",
		RunE:    runDelete,
	}

	cmd.Flags().StringVarP(&deleteFlags.Source, "source", "s", "", "source directory path (required)")
	cmd.Flags().StringVarP(&deleteFlags.Extension, "ext", "e", "", "file extension, with or without the leading dot (required)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("ext")

	cmd.Flags().BoolVarP(&deleteFlags.Yes, "yes", "y", false, "do not ask for confirmation")
	addReportFlags(cmd, &deleteFlags.Report)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validateDeleteFlags(ctx); err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !deleteFlags.Yes {
		ok, err := a.confirm("Are you sure you want to delete these files?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.errOut, "Operation cancelled.")
			return nil
		}
	}

	a.start(models.BatchDelete)
	onProgress, onStatus := a.callbacks()
	report, err := a.engine().DeleteByExtension(
		ctx,
		deleteFlags.Source,
		models.NormalizeExtension(deleteFlags.Extension),
		onProgress,
		onStatus,
	)

	return a.finishBatch(ctx, report, err, deleteFlags.Report)
}
