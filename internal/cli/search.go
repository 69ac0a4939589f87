package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// SearchFlags holds search command flags
type SearchFlags struct {
	Source  string
	Pattern string
}

var searchFlags SearchFlags

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find files whose name contains a term",
		Long: `Search the source directory recursively for files whose name contains
the pattern. The match ignores case.`,
		Example: "  filekeeper search -s ~/Documents -p invoice",
		RunE:    runSearch,
	}

	cmd.Flags().StringVarP(&searchFlags.Source, "source", "s", "", "source directory path (required)")
	cmd.Flags().StringVarP(&searchFlags.Pattern, "pattern", "p", "", "search term (required)")
	cmd.MarkFlagRequired("source")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validateSearchFlags(ctx); err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	paths, err := a.finder().SearchByName(ctx, searchFlags.Source, searchFlags.Pattern)
	if err != nil {
		return err
	}

	return a.formatter.Listing(a.out, paths, "No matching files found.")
}
