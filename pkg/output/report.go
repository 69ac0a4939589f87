package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sdejongh/filekeeper/pkg/archive"
	"github.com/sdejongh/filekeeper/pkg/models"
)

// WriteBatchReport writes the batch report to a file so a partially applied
// batch can be inspected later. Format can be "human" or "json".
func WriteBatchReport(report *models.BatchReport, path string, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		err = writeReportJSON(report, file)
	default:
		err = writeReportHuman(report, file)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeReportHuman(report *models.BatchReport, w io.Writer) error {
	fmt.Fprintf(w, "Batch Report\n")
	fmt.Fprintf(w, "============\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Batch: %s\n", report.OperationID)
	fmt.Fprintf(w, "Kind: %s\n", report.Kind)
	fmt.Fprintf(w, "Source: %s\n", report.SourcePath)
	if report.DestPath != "" {
		fmt.Fprintf(w, "Destination: %s\n", report.DestPath)
	}
	fmt.Fprintf(w, "Extension: %s\n", report.Extension)
	fmt.Fprintf(w, "Status: %s\n\n", report.Status)

	fmt.Fprintf(w, "Processed (%d of %d)\n", report.Completed(), report.Total)
	for _, p := range report.Processed {
		fmt.Fprintf(w, "  %s\n", p)
	}

	if report.FailedPath != "" {
		fmt.Fprintf(w, "\nFailed at: %s\n", report.FailedPath)
		fmt.Fprintf(w, "Error: %s\n", report.Error)
	}
	return nil
}

func writeReportJSON(report *models.BatchReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewJSONReport(report))
}

// WriteEntries prints archive entries as a table, or as JSON when format is "json"
func WriteEntries(w io.Writer, entries []archive.Entry, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(newJSONEntries(entries))
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No backup available.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, formatBytes(e.Size), e.Modified.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}
