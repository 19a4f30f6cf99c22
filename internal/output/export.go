package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	tderrors "github.com/abatilo/taskdeck/internal/errors"
	"github.com/abatilo/taskdeck/internal/storage"
	"github.com/abatilo/taskdeck/internal/task"
)

// ExportFormat names a serialization of the task collection.
type ExportFormat string

const (
	ExportJSON     ExportFormat = "json"
	ExportCSV      ExportFormat = "csv"
	ExportYAML     ExportFormat = "yaml"
	ExportPDF      ExportFormat = "pdf"
	ExportMarkdown ExportFormat = "markdown" // One file per task; see storage.WriteMarkdownDir
)

var exportFormats = []string{
	string(ExportJSON), string(ExportCSV), string(ExportYAML), string(ExportPDF), string(ExportMarkdown),
}

// ParseExportFormat validates an export format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case ExportJSON, ExportCSV, ExportYAML, ExportPDF, ExportMarkdown:
		return f, nil
	case "yml":
		return ExportYAML, nil
	case "md":
		return ExportMarkdown, nil
	default:
		return "", tderrors.UnknownFormatError{Value: s, Valid: exportFormats}
	}
}

// Export writes tasks to w in the given stream format. Markdown is not a
// stream format and is rejected here.
func Export(w io.Writer, format ExportFormat, tasks []task.Task, now time.Time) error {
	switch format {
	case ExportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toTaskListJSON(tasks, now))
	case ExportCSV:
		return exportCSV(w, tasks, now)
	case ExportYAML:
		return storage.WriteYAML(w, tasks)
	case ExportPDF:
		return exportPDF(w, tasks, now)
	default:
		return tderrors.UnknownFormatError{Value: string(format), Valid: []string{
			string(ExportJSON), string(ExportCSV), string(ExportYAML), string(ExportPDF),
		}}
	}
}

var csvHeader = []string{
	"id", "title", "description", "priority", "category", "completed",
	"overdue", "created_at", "due_date", "estimated_hours",
}

func exportCSV(w io.Writer, tasks []task.Task, now time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format(time.RFC3339)
		}
		hours := ""
		if t.EstimatedHours != nil {
			hours = strconv.FormatFloat(*t.EstimatedHours, 'f', -1, 64)
		}
		record := []string{
			t.ID, t.Title, t.Description, string(t.Priority), string(t.Category),
			strconv.FormatBool(t.Completed), strconv.FormatBool(t.IsOverdue(now)),
			t.CreatedAt.Format(time.RFC3339), due, hours,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportPDF(w io.Writer, tasks []task.Task, now time.Time) error {
	st := storage.Summarize(tasks, now)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, "Generated "+now.Local().Format(timestampLayout))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total %d   Pending %d   Completed %d   Overdue %d   Progress %d%%",
		st.Total, st.Pending, st.Completed, st.Overdue, st.ProgressPercent))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s  (%s, %s)", mark, t.Title, t.Priority, t.Category)
		if t.DueDate != nil {
			line += "  due " + t.DueDate.Local().Format(dateLayout)
			if t.IsOverdue(now) {
				line += "  OVERDUE"
			}
		}
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
		if t.Description != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 5, tr("    "+t.Description), "0", "L", false)
			pdf.SetFont("Arial", "", 10)
		}
	}

	return pdf.Output(w)
}
