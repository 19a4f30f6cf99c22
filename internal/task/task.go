package task

import "time"

// Priority represents the importance level of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultPriority is assigned when a task is created without one.
const DefaultPriority = PriorityMedium

// PriorityOrder returns the sort order for a priority (lower = higher priority).
func PriorityOrder(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// IsValidPriority checks if a priority string is valid.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Category groups tasks. Any text is accepted; the well-known values below
// only drive presentation.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
)

// DefaultCategory is assigned when a task is created without one.
const DefaultCategory = CategoryWork

// IsKnownCategory reports whether c is one of the built-in categories.
func IsKnownCategory(c Category) bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning:
		return true
	default:
		return false
	}
}

// Task represents a tracked to-do record.
type Task struct {
	ID             string     `yaml:"id"`
	Title          string     `yaml:"title"`
	Description    string     `yaml:"description,omitempty"`
	Priority       Priority   `yaml:"priority"`
	Category       Category   `yaml:"category"`
	Completed      bool       `yaml:"completed"`
	CreatedAt      time.Time  `yaml:"created_at"`
	DueDate        *time.Time `yaml:"due_date,omitempty"`
	Tags           []string   `yaml:"tags"` // Reserved; never read
	EstimatedHours *float64   `yaml:"estimated_hours,omitempty"`
}

// IsOverdue reports whether the task is still pending and its due date lies
// strictly before now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.EstimatedHours != nil {
		h := *t.EstimatedHours
		c.EstimatedHours = &h
	}
	c.Tags = make([]string, len(t.Tags))
	copy(c.Tags, t.Tags)
	return c
}
