package cli

import (
	"context"
	"fmt"

	"github.com/sdejongh/filekeeper/pkg/models"
	"github.com/spf13/cobra"
)

// reportFlags holds the batch report flags shared by move and delete
type reportFlags struct {
	Path   string
	Format string
}

func addReportFlags(cmd *cobra.Command, flags *reportFlags) {
	cmd.Flags().StringVar(&flags.Path, "report", "", "write a batch report to file")
	cmd.Flags().StringVar(&flags.Format, "report-format", "human", "batch report format: human, json")
}

// MoveFlags holds move command flags
type MoveFlags struct {
	Source    string
	Dest      string
	Extension string
	Yes       bool
	Report    reportFlags
}

var moveFlags MoveFlags

// NewMoveCommand creates the move command
func NewMoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move files with an extension to another directory",
		Long: `Move every file directly inside the source directory whose name ends
with the extension into the destination directory. Subdirectories are not
searched. Each file is added to the backup archive before it is moved.`,
		Example: "  filekeeper move -s ~/Downloads -d ~/Documents/pdf -e pdf",
		RunE:    runMove,
	}

	cmd.Flags().StringVarP(&moveFlags.Source, "source", "s", "", "source directory path (required)")
	cmd.Flags().StringVarP(&moveFlags.Dest, "dest", "d", "", "destination directory path (required)")
	cmd.Flags().StringVarP(&moveFlags.Extension, "ext", "e", "", "file extension, with or without the leading dot (required)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("dest")
	cmd.MarkFlagRequired("ext")

	cmd.Flags().BoolVarP(&moveFlags.Yes, "yes", "y", false, "do not ask for confirmation")
	addReportFlags(cmd, &moveFlags.Report)

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validateMoveFlags(ctx); err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !moveFlags.Yes {
		ok, err := a.confirm("Are you sure you want to move these files?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.errOut, "Operation cancelled.")
			return nil
		}
	}

	a.start(models.BatchMove)
	onProgress, onStatus := a.callbacks()
	report, err := a.engine().MoveByExtension(
		ctx,
		moveFlags.Source,
		moveFlags.Dest,
		models.NormalizeExtension(moveFlags.Extension),
		onProgress,
		onStatus,
	)

	return a.finishBatch(ctx, report, err, moveFlags.Report)
}
