//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// InvalidInputError indicates a create or update was rejected by validation.
// The collection is left unchanged.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TaskNotFoundError indicates the task ID doesn't match any task.
// Stores return it as a soft signal: nothing was changed.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// AlreadyExistsError indicates an ID collision.
type AlreadyExistsError struct {
	ID string
}

func (e AlreadyExistsError) Error() string {
	return fmt.Sprintf("task already exists: %s", e.ID)
}

// InvalidPriorityError indicates an invalid priority value.
type InvalidPriorityError struct {
	Value string
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority: %s (valid: high, medium, low)", e.Value)
}

// InvalidStatusError indicates an unknown status selector.
type InvalidStatusError struct {
	Value string
}

func (e InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status: %s (valid: all, pending, completed)", e.Value)
}

// UnknownFormatError indicates an unsupported output or export format.
type UnknownFormatError struct {
	Value string
	Valid []string
}

func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format: %s (valid: %v)", e.Value, e.Valid)
}
