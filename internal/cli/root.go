package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sdejongh/filekeeper/pkg/models"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the filekeeper command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "filekeeper",
		Short: "Move, delete and find files with a zip backup",
		Long: `filekeeper moves or deletes the files of a directory that match an
extension, backing every file up into a zip archive first. The archive can be
restored with "filekeeper undo". It also lists and searches directory trees.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewMoveCommand())
	rootCmd.AddCommand(NewDeleteCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewSearchCommand())
	rootCmd.AddCommand(NewUndoCommand())
	rootCmd.AddCommand(NewArchiveCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	err := NewRootCommand().Execute()
	if err != nil && !isReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// exitError carries the exit code of a batch that stopped part way.
// reported is set when a formatter already displayed the error.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func isReported(err error) bool {
	var exitErr *exitError
	return errors.As(err, &exitErr) && exitErr.reported
}

// ExitCode maps an error returned by a command to a process exit code:
// 0 success, 1 nothing matched or invalid input, 2 I/O failure, 3 partial batch
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	var validationErr *models.ValidationError
	if models.IsNotFound(err) || errors.As(err, &validationErr) {
		return 1
	}

	return 2
}
