package output

import (
	"encoding/json"
	"time"

	"github.com/abatilo/taskdeck/internal/storage"
	"github.com/abatilo/taskdeck/internal/task"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// taskJSON is the JSON representation of a task.
type taskJSON struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Priority       string   `json:"priority"`
	Category       string   `json:"category"`
	Completed      bool     `json:"completed"`
	Overdue        bool     `json:"overdue"`
	CreatedAt      string   `json:"created_at"`
	DueDate        *string  `json:"due_date,omitempty"`
	Tags           []string `json:"tags"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
}

func toTaskJSON(t task.Task, now time.Time) taskJSON {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	tj := taskJSON{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Priority:       string(t.Priority),
		Category:       string(t.Category),
		Completed:      t.Completed,
		Overdue:        t.IsOverdue(now),
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		Tags:           tags,
		EstimatedHours: t.EstimatedHours,
	}
	if t.DueDate != nil {
		s := t.DueDate.Format(time.RFC3339)
		tj.DueDate = &s
	}
	return tj
}

func toTaskListJSON(tasks []task.Task, now time.Time) []taskJSON {
	jsonTasks := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		jsonTasks[i] = toTaskJSON(t, now)
	}
	return jsonTasks
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(t task.Task, now time.Time) string {
	return marshalJSON(toTaskJSON(t, now))
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []task.Task, now time.Time) string {
	return marshalJSON(toTaskListJSON(tasks, now))
}

// statsJSON is the JSON representation of collection statistics.
type statsJSON struct {
	Total           int `json:"total"`
	Completed       int `json:"completed"`
	Pending         int `json:"pending"`
	Overdue         int `json:"overdue"`
	ProgressPercent int `json:"progress_percent"`
}

func toStatsJSON(st storage.Statistics) statsJSON {
	return statsJSON{
		Total:           st.Total,
		Completed:       st.Completed,
		Pending:         st.Pending,
		Overdue:         st.Overdue,
		ProgressPercent: st.ProgressPercent,
	}
}

// FormatStats formats collection statistics as JSON.
func (f *JSONFormatter) FormatStats(st storage.Statistics) string {
	return marshalJSON(toStatsJSON(st))
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
