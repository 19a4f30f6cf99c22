package storage

import (
	"strings"

	tderrors "github.com/abatilo/taskdeck/internal/errors"
	"github.com/abatilo/taskdeck/internal/task"
)

// All is the selector value that disables a criterion.
const All = "all"

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = All
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// Matches returns true if a task with the given completion state passes.
func (f StatusFilter) Matches(completed bool) bool {
	switch f {
	case StatusPending:
		return !completed
	case StatusCompleted:
		return completed
	default:
		return true
	}
}

// ParseStatusFilter parses a status selector. The empty string means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending, StatusCompleted:
		return f, nil
	default:
		return "", tderrors.InvalidStatusError{Value: s}
	}
}

// Criteria is a set of filter predicates combined conjunctively. Zero
// values and "all" disable the corresponding predicate.
type Criteria struct {
	SearchText string
	Status     StatusFilter
	Priority   string
	Category   string
}

// NewCriteria builds Criteria from raw selector text, validating the status
// and priority selectors. Category is free text.
func NewCriteria(search, status, priority, category string) (Criteria, error) {
	st, err := ParseStatusFilter(status)
	if err != nil {
		return Criteria{}, err
	}

	priority = strings.ToLower(strings.TrimSpace(priority))
	if priority != "" && priority != All && !task.IsValidPriority(task.Priority(priority)) {
		return Criteria{}, tderrors.InvalidPriorityError{Value: priority}
	}

	return Criteria{
		SearchText: search,
		Status:     st,
		Priority:   priority,
		Category:   strings.TrimSpace(category),
	}, nil
}

// Matches returns true if t satisfies every active predicate.
func (c Criteria) Matches(t task.Task) bool {
	if c.SearchText != "" {
		needle := strings.ToLower(c.SearchText)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	if !c.Status.Matches(t.Completed) {
		return false
	}
	if c.Priority != "" && c.Priority != All && task.Priority(c.Priority) != t.Priority {
		return false
	}
	if c.Category != "" && c.Category != All && task.Category(c.Category) != t.Category {
		return false
	}
	return true
}
