package storage

import (
	"math"
	"time"

	"github.com/abatilo/taskdeck/internal/task"
)

// Statistics aggregates the full collection.
type Statistics struct {
	Total           int
	Completed       int
	Pending         int
	Overdue         int
	ProgressPercent int
}

// Summarize computes Statistics over tasks, judging overdue state against
// the single instant now.
func Summarize(tasks []task.Task, now time.Time) Statistics {
	var st Statistics
	st.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
		}
		if t.IsOverdue(now) {
			st.Overdue++
		}
	}
	st.Pending = st.Total - st.Completed
	if st.Total > 0 {
		st.ProgressPercent = int(math.Round(100 * float64(st.Completed) / float64(st.Total)))
	}
	return st
}
