package output

import (
	"io"
	"strings"
	"time"

	tderrors "github.com/abatilo/taskdeck/internal/errors"
	"github.com/abatilo/taskdeck/internal/storage"
	"github.com/abatilo/taskdeck/internal/task"
)

// Formatter defines the interface for output formatting. List and task
// renderers take the instant used for overdue markers so a whole render
// pass is judged against one clock sample.
type Formatter interface {
	FormatTask(t task.Task, now time.Time) string
	FormatTaskList(tasks []task.Task, now time.Time) string
	FormatStats(st storage.Statistics) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// Output styles accepted by New.
const (
	StyleHuman = "human"
	StyleJSON  = "json"
)

// New returns the formatter for style writing to w. Color only affects the
// human style.
func New(w io.Writer, style string, color bool) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", StyleHuman:
		return NewHumanFormatter(w, color), nil
	case StyleJSON:
		return NewJSONFormatter(), nil
	default:
		return nil, tderrors.UnknownFormatError{Value: style, Valid: []string{StyleHuman, StyleJSON}}
	}
}
