package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/abatilo/taskdeck/internal/storage"
	"github.com/abatilo/taskdeck/internal/task"
)

const (
	dateLayout       = "2006-01-02"
	timestampLayout  = "2006-01-02 15:04"
	progressBarWidth = 20
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct {
	priority map[task.Priority]lipgloss.Style
	category map[task.Category]lipgloss.Style
	plain    lipgloss.Style
	muted    lipgloss.Style
	overdue  lipgloss.Style
	done     lipgloss.Style
}

// NewHumanFormatter creates a HumanFormatter whose colour profile is detected
// from w, the writer its output goes to. With color disabled every style
// renders its input unchanged.
func NewHumanFormatter(w io.Writer, color bool) *HumanFormatter {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	fg := func(hex string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(hex))
	}

	return &HumanFormatter{
		priority: map[task.Priority]lipgloss.Style{
			task.PriorityHigh:   fg("#B91C1C").Bold(true),
			task.PriorityMedium: fg("#A16207"),
			task.PriorityLow:    fg("#15803D"),
		},
		category: map[task.Category]lipgloss.Style{
			task.CategoryWork:     fg("#1D4ED8"),
			task.CategoryPersonal: fg("#7E22CE"),
			task.CategoryHealth:   fg("#047857"),
			task.CategoryLearning: fg("#C2410C"),
		},
		plain:   r.NewStyle(),
		muted:   fg("#64748B"),
		overdue: fg("#DC2626").Bold(true),
		done:    fg("#64748B").Strikethrough(true),
	}
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t task.Task, now time.Time) string {
	var sb strings.Builder

	title := t.Title
	if t.Completed {
		title = f.done.Render(title)
	}
	fmt.Fprintf(&sb, "[%s] %s\n", t.ID, title)
	fmt.Fprintf(&sb, "  Status:   %s\n", statusLabel(t))
	fmt.Fprintf(&sb, "  Priority: %s\n", f.priorityStyle(t.Priority).Render(string(t.Priority)))
	fmt.Fprintf(&sb, "  Category: %s\n", f.categoryStyle(t.Category).Render(string(t.Category)))
	fmt.Fprintf(&sb, "  Created:  %s\n", t.CreatedAt.Local().Format(timestampLayout))

	if t.DueDate != nil {
		due := t.DueDate.Local().Format(timestampLayout)
		if t.IsOverdue(now) {
			due += " " + f.overdue.Render("(overdue)")
		}
		fmt.Fprintf(&sb, "  Due:      %s\n", due)
	}
	if t.EstimatedHours != nil {
		fmt.Fprintf(&sb, "  Estimate: %sh\n", strconv.FormatFloat(*t.EstimatedHours, 'f', -1, 64))
	}
	if t.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Description)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []task.Task, now time.Time) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t, now))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t task.Task, now time.Time) string {
	checkbox := "[ ]"
	title := t.Title
	if t.Completed {
		checkbox = "[x]"
		title = f.done.Render(title)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] %s  %s  %s",
		checkbox,
		t.ID,
		title,
		f.priorityStyle(t.Priority).Render(string(t.Priority)),
		f.categoryStyle(t.Category).Render(string(t.Category)),
	)
	if t.DueDate != nil {
		sb.WriteString(f.muted.Render("  due " + t.DueDate.Local().Format(dateLayout)))
		if t.IsOverdue(now) {
			sb.WriteString(" " + f.overdue.Render("OVERDUE"))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatStats formats collection statistics with a progress bar.
func (f *HumanFormatter) FormatStats(st storage.Statistics) string {
	filled := st.ProgressPercent * progressBarWidth / 100
	bar := strings.Repeat("#", filled) + strings.Repeat("-", progressBarWidth-filled)

	overdue := strconv.Itoa(st.Overdue)
	if st.Overdue > 0 {
		overdue = f.overdue.Render(overdue)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total: %d  Pending: %d  Completed: %d  Overdue: %s\n",
		st.Total, st.Pending, st.Completed, overdue)
	fmt.Fprintf(&sb, "Progress: [%s] %d%%\n", bar, st.ProgressPercent)
	return sb.String()
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}

func (f *HumanFormatter) priorityStyle(p task.Priority) lipgloss.Style {
	if s, ok := f.priority[p]; ok {
		return s
	}
	return f.plain
}

func (f *HumanFormatter) categoryStyle(c task.Category) lipgloss.Style {
	if s, ok := f.category[c]; ok {
		return s
	}
	return f.muted
}

func statusLabel(t task.Task) string {
	if t.Completed {
		return "completed"
	}
	return "pending"
}
