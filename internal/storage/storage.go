package storage

import (
	"math"
	"strings"
	"time"

	tderrors "github.com/abatilo/taskdeck/internal/errors"
	"github.com/abatilo/taskdeck/internal/task"
)

// Fields holds the caller-supplied, mutable part of a task. It is the input
// to both Create and Update.
type Fields struct {
	Title          string
	Description    string
	Priority       task.Priority
	Category       task.Category
	DueDate        *time.Time
	EstimatedHours *float64
}

// Store owns the canonical, in-memory task collection for one session.
// Tasks are kept most-recently-created first. A Store is not safe for
// concurrent use.
type Store struct {
	tasks  []task.Task
	issued map[string]struct{} // every ID ever handed out, including deleted ones
	now    func() time.Time

	defaultPriority task.Priority
	defaultCategory task.Category
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock used for createdAt and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithDefaults sets the priority and category applied when Fields leaves
// them empty. Empty arguments keep the built-in defaults.
func WithDefaults(priority task.Priority, category task.Category) Option {
	return func(s *Store) {
		if priority != "" {
			s.defaultPriority = priority
		}
		if category != "" {
			s.defaultCategory = category
		}
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		issued:          make(map[string]struct{}),
		now:             time.Now,
		defaultPriority: task.DefaultPriority,
		defaultCategory: task.DefaultCategory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now samples the store clock. Callers rendering a list should sample once
// and judge every task against that instant.
func (s *Store) Now() time.Time {
	return s.now()
}

// Len returns the number of tasks in the collection.
func (s *Store) Len() int {
	return len(s.tasks)
}

// List returns copies of all tasks in collection order.
func (s *Store) List() []task.Task {
	out := make([]task.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the task with the given ID.
func (s *Store) Get(id string) (task.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, tderrors.TaskNotFoundError{ID: id}
	}
	return s.tasks[i].Clone(), nil
}

// Create validates f and inserts a new task at the front of the collection.
func (s *Store) Create(f Fields) (task.Task, error) {
	f, err := s.normalize(f)
	if err != nil {
		return task.Task{}, err
	}

	createdAt := s.now()
	t := task.Task{
		ID:             task.GenerateID(f.Title, createdAt, s.isIssued),
		Title:          f.Title,
		Description:    f.Description,
		Priority:       f.Priority,
		Category:       f.Category,
		Completed:      false,
		CreatedAt:      createdAt,
		DueDate:        f.DueDate,
		Tags:           []string{},
		EstimatedHours: f.EstimatedHours,
	}
	t = t.Clone()

	s.issued[t.ID] = struct{}{}
	s.tasks = append([]task.Task{t}, s.tasks...)
	return t.Clone(), nil
}

// Update replaces the mutable fields of the task with the given ID. ID,
// CreatedAt, Completed and Tags are preserved.
func (s *Store) Update(id string, f Fields) (task.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, tderrors.TaskNotFoundError{ID: id}
	}
	f, err := s.normalize(f)
	if err != nil {
		return task.Task{}, err
	}

	updated := s.tasks[i].Clone()
	updated.Title = f.Title
	updated.Description = f.Description
	updated.Priority = f.Priority
	updated.Category = f.Category
	updated.DueDate = f.DueDate
	updated.EstimatedHours = f.EstimatedHours

	s.tasks[i] = updated.Clone()
	return updated, nil
}

// ToggleCompletion flips the completed flag of the task with the given ID.
func (s *Store) ToggleCompletion(id string) (task.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, tderrors.TaskNotFoundError{ID: id}
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.tasks[i].Clone(), nil
}

// Delete removes the task with the given ID. Its ID is never reissued.
func (s *Store) Delete(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return tderrors.TaskNotFoundError{ID: id}
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// Import appends already-built tasks, e.g. from a seed file, in the given
// order. Missing IDs are generated and missing creation times set to now.
// The batch is validated as a whole; on error nothing is added.
func (s *Store) Import(tasks []task.Task) error {
	now := s.now()
	batch := make([]task.Task, 0, len(tasks))
	seen := make(map[string]struct{}, len(tasks))

	for _, t := range tasks {
		t = t.Clone()
		f, err := s.normalize(Fields{
			Title:          t.Title,
			Description:    t.Description,
			Priority:       t.Priority,
			Category:       t.Category,
			DueDate:        t.DueDate,
			EstimatedHours: t.EstimatedHours,
		})
		if err != nil {
			return err
		}
		t.Priority = f.Priority
		t.Category = f.Category

		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if t.ID == "" {
			t.ID = task.GenerateID(t.Title, t.CreatedAt, func(id string) bool {
				_, inBatch := seen[id]
				return inBatch || s.isIssued(id)
			})
		}
		if _, dup := seen[t.ID]; dup || s.isIssued(t.ID) {
			return tderrors.AlreadyExistsError{ID: t.ID}
		}
		seen[t.ID] = struct{}{}
		batch = append(batch, t)
	}

	for _, t := range batch {
		s.issued[t.ID] = struct{}{}
	}
	s.tasks = append(s.tasks, batch...)
	return nil
}

// Filter returns copies of the tasks matching c, in collection order.
func (s *Store) Filter(c Criteria) []task.Task {
	out := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if c.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Statistics summarises the full collection against a single clock sample.
func (s *Store) Statistics() Statistics {
	return Summarize(s.tasks, s.now())
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) isIssued(id string) bool {
	_, ok := s.issued[id]
	return ok
}

// normalize applies defaults and validates f.
func (s *Store) normalize(f Fields) (Fields, error) {
	if strings.TrimSpace(f.Title) == "" {
		return f, tderrors.InvalidInputError{Field: "title", Reason: "please enter a task title"}
	}
	if f.Priority == "" {
		f.Priority = s.defaultPriority
	}
	if !task.IsValidPriority(f.Priority) {
		return f, tderrors.InvalidPriorityError{Value: string(f.Priority)}
	}
	if f.Category == "" {
		f.Category = s.defaultCategory
	}
	if h := f.EstimatedHours; h != nil && (*h < 0 || math.IsNaN(*h) || math.IsInf(*h, 0)) {
		return f, tderrors.InvalidInputError{Field: "estimated_hours", Reason: "must be a non-negative number"}
	}
	return f, nil
}
