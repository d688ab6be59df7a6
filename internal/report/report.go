package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"netreconciler/internal/reconcile"
)

// OutputFormatType defines the format types for the reconciliation report.
type OutputFormatType string

const (
	// OutputFormatTypeJSON represents JSON output format
	OutputFormatTypeJSON OutputFormatType = "JSON"
	// OutputFormatTypeTABLE represents table output format
	OutputFormatTypeTABLE OutputFormatType = "TABLE"
)

// Report is the JSON envelope around one reconciliation run.
type Report struct {
	RunID           string                    `json:"run_id"`
	GeneratedAt     time.Time                 `json:"generated_at"`
	Summary         reconcile.Summary         `json:"summary"`
	Inconsistencies []reconcile.Inconsistency `json:"inconsistencies"`
}

// NewReport stamps the inconsistencies with a fresh run ID.
func NewReport(inconsistencies []reconcile.Inconsistency) Report {
	if inconsistencies == nil {
		inconsistencies = []reconcile.Inconsistency{}
	}
	return Report{
		RunID:           uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		Summary:         reconcile.Summarize(inconsistencies),
		Inconsistencies: inconsistencies,
	}
}

// PrintReport writes the report to w using the specified output format.
// Supported formats: JSON (machine-readable) and TABLE (human-friendly).
func PrintReport(w io.Writer, inconsistencies []reconcile.Inconsistency, outputFormat OutputFormatType) error {
	report := NewReport(inconsistencies)

	switch outputFormat {
	case OutputFormatTypeJSON:
		return printJSONReport(w, report)
	case OutputFormatTypeTABLE:
		return printTableReport(w, report)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func printJSONReport(w io.Writer, report any) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling report to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printTableReport prints one block per inconsistency followed by a summary line.
func printTableReport(w io.Writer, report Report) error {
	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if len(report.Inconsistencies) == 0 {
		fmt.Fprintln(writer, "No inconsistencies found")
		return writer.Flush()
	}

	writeInconsistencies(writer, report.Inconsistencies)
	writeSummary(writer, report.Summary)

	return writer.Flush()
}

// writeInconsistencies writes a row per value group for mismatches and a
// single row listing the lacking sources for missing fields.
func writeInconsistencies(writer io.Writer, inconsistencies []reconcile.Inconsistency) {
	for _, inc := range inconsistencies {
		fmt.Fprintf(writer, "\nKEY:\t%s\n", inc.Key)
		fmt.Fprintf(writer, "SOURCES:\t%s\n\n", strings.Join(inc.Sources, ", "))
		fmt.Fprintln(writer, "FIELD\tSTATUS\tVALUE\tSOURCES")
		fmt.Fprintln(writer, "-----\t------\t-----\t-------")

		for _, d := range inc.Details {
			switch d.Type {
			case reconcile.DetailMismatch:
				for _, group := range d.Values {
					fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
						d.Field, "MISMATCH", group.Value, strings.Join(group.Sources, ", "))
				}
			case reconcile.DetailMissing:
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					d.Field, "MISSING", "-", strings.Join(d.MissingSources, ", "))
			}
		}
	}
}

func writeSummary(writer io.Writer, summary reconcile.Summary) {
	fmt.Fprintln(writer, "")
	fmt.Fprintf(writer, "Summary: %d inconsistent records, %d mismatches, %d missing fields\n",
		summary.Inconsistencies, summary.Mismatches, summary.Missing)
}

// EntityReport is the JSON envelope around an inventory run.
type EntityReport struct {
	RunID       string                   `json:"run_id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Summary     reconcile.Summary        `json:"summary"`
	Entities    []reconcile.EntityResult `json:"entities"`
}

// NewEntityReport stamps the entity results with a fresh run ID.
func NewEntityReport(results []reconcile.EntityResult) EntityReport {
	if results == nil {
		results = []reconcile.EntityResult{}
	}
	return EntityReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Summary:     reconcile.SummarizeEntities(results),
		Entities:    results,
	}
}

// PrintEntityReport writes the inventory report to w using the specified output format.
func PrintEntityReport(w io.Writer, results []reconcile.EntityResult, outputFormat OutputFormatType) error {
	report := NewEntityReport(results)

	switch outputFormat {
	case OutputFormatTypeJSON:
		return printJSONReport(w, report)
	case OutputFormatTypeTABLE:
		return printEntityTable(w, report)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func printEntityTable(w io.Writer, report EntityReport) error {
	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if len(report.Entities) == 0 {
		fmt.Fprintln(writer, "No inconsistencies found")
		return writer.Flush()
	}

	for _, entity := range report.Entities {
		fmt.Fprintf(writer, "\n=== ENTITY: %s ===\n", entity.ID)
		writeInconsistencies(writer, entity.Inconsistencies)
	}
	writeSummary(writer, report.Summary)
	fmt.Fprintf(writer, "Entities with inconsistencies: %d\n", len(report.Entities))

	return writer.Flush()
}

// DefaultPrinter is the default implementation of the report printer
type DefaultPrinter struct{}

// PrintReport implements the printer interface
func (p DefaultPrinter) PrintReport(inconsistencies []reconcile.Inconsistency, format OutputFormatType) error {
	return PrintReport(os.Stdout, inconsistencies, format)
}

// PrintEntityReport implements the printer interface
func (p DefaultPrinter) PrintEntityReport(results []reconcile.EntityResult, format OutputFormatType) error {
	return PrintEntityReport(os.Stdout, results, format)
}
