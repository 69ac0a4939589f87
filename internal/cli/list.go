package cli

import (
	"context"
	"fmt"

	"github.com/sdejongh/filekeeper/pkg/models"
	"github.com/spf13/cobra"
)

// ListFlags holds list command flags
type ListFlags struct {
	Source    string
	Extension string
}

var listFlags ListFlags

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List files under a directory",
		Long: `List every file under the source directory, recursively. With --ext
only files whose name ends with the extension are listed.`,
		RunE: runList,
	}

	cmd.Flags().StringVarP(&listFlags.Source, "source", "s", "", "source directory path (required)")
	cmd.Flags().StringVarP(&listFlags.Extension, "ext", "e", "", "only list files with this extension")
	cmd.MarkFlagRequired("source")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validateSource(ctx, listFlags.Source); err != nil {
		return err
	}
	if cmd.Flags().Changed("ext") {
		if err := validateExtension(listFlags.Extension); err != nil {
			return err
		}
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		paths []string
		empty string
	)
	if listFlags.Extension == "" {
		paths, err = a.finder().ListAll(ctx, listFlags.Source)
		empty = "No files found."
	} else {
		ext := models.NormalizeExtension(listFlags.Extension)
		paths, err = a.finder().ListByExtension(ctx, listFlags.Source, ext)
		empty = fmt.Sprintf("No files with extension %s found.", ext)
	}
	if err != nil {
		return err
	}

	return a.formatter.Listing(a.out, paths, empty)
}
