//nolint:testpackage // Tests require internal access for thorough testing
package storage

import (
	"errors"
	"reflect"
	"testing"
	"time"

	tderrors "github.com/abatilo/taskdeck/internal/errors"
	"github.com/abatilo/taskdeck/internal/task"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	return NewStore(WithClock(clock.Now)), clock
}

func mustCreate(t *testing.T, s *Store, f Fields) task.Task {
	t.Helper()
	created, err := s.Create(f)
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", f.Title, err)
	}
	return created
}

func ptr[T any](v T) *T {
	return &v
}

func TestStoreCreate(t *testing.T) {
	tests := []struct {
		name    string
		fields  Fields
		wantErr error
	}{
		{"empty title", Fields{Title: ""}, tderrors.InvalidInputError{}},
		{"whitespace title", Fields{Title: "  \t\n"}, tderrors.InvalidInputError{}},
		{"bad priority", Fields{Title: "x", Priority: "urgent"}, tderrors.InvalidPriorityError{}},
		{"negative hours", Fields{Title: "x", EstimatedHours: ptr(-1.0)}, tderrors.InvalidInputError{}},
		{"valid", Fields{Title: "Buy milk"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			mustCreate(t, s, Fields{Title: "existing"})

			got, err := s.Create(tt.fields)
			if tt.wantErr != nil {
				if reflect.TypeOf(err) != reflect.TypeOf(tt.wantErr) {
					t.Fatalf("Create error = %T (%v), want %T", err, err, tt.wantErr)
				}
				if s.Len() != 1 {
					t.Errorf("Len = %d, collection must be unchanged on invalid input", s.Len())
				}
				return
			}
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if s.Len() != 2 {
				t.Errorf("Len = %d, want 2", s.Len())
			}
			if first := s.List()[0].ID; first != got.ID {
				t.Errorf("first task = %s, new task %s must come first", first, got.ID)
			}
		})
	}
}

func TestStoreCreateDefaults(t *testing.T) {
	s, clock := newTestStore(t)

	got := mustCreate(t, s, Fields{Title: "Buy milk"})

	if got.ID == "" {
		t.Error("ID should be assigned")
	}
	if got.Completed {
		t.Error("new task should be pending")
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty slice", got.Tags)
	}
	if got.Priority != task.PriorityMedium {
		t.Errorf("Priority = %q, want %q", got.Priority, task.PriorityMedium)
	}
	if got.Category != task.CategoryWork {
		t.Errorf("Category = %q, want %q", got.Category, task.CategoryWork)
	}
	if !got.CreatedAt.Equal(clock.Now()) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, clock.Now())
	}
	if got.Description != "" || got.DueDate != nil {
		t.Errorf("optional fields should be empty: %+v", got)
	}
}

func TestStoreWithDefaults(t *testing.T) {
	s := NewStore(WithDefaults(task.PriorityLow, task.CategoryHealth))

	got := mustCreate(t, s, Fields{Title: "Stretch"})
	if got.Priority != task.PriorityLow || got.Category != task.CategoryHealth {
		t.Errorf("defaults = %q/%q, want low/health", got.Priority, got.Category)
	}
}

func TestStoreCreateDoesNotAliasInput(t *testing.T) {
	s, _ := newTestStore(t)
	want := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	due := want

	got := mustCreate(t, s, Fields{Title: "Pay rent", DueDate: &due})
	due = due.Add(48 * time.Hour)

	stored, err := s.Get(got.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !stored.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", stored.DueDate, want)
	}
}

func TestStoreIDsNeverReused(t *testing.T) {
	s, clock := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		created := mustCreate(t, s, Fields{Title: "same title"})
		if seen[created.ID] {
			t.Fatalf("id %q reused", created.ID)
		}
		seen[created.ID] = true

		if i%2 == 0 {
			if err := s.Delete(created.ID); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
		}
		// Identical clock readings must still produce distinct ids.
		if i%10 == 0 {
			clock.Advance(time.Millisecond)
		}
	}

	inCollection := make(map[string]bool)
	for _, tk := range s.List() {
		if inCollection[tk.ID] {
			t.Errorf("duplicate id %q in collection", tk.ID)
		}
		inCollection[tk.ID] = true
	}
	if s.Len() != 100 {
		t.Errorf("Len = %d, want 100", s.Len())
	}
}

func TestStoreUpdate(t *testing.T) {
	s, clock := newTestStore(t)
	orig := mustCreate(t, s, Fields{Title: "Draft", Priority: task.PriorityLow})
	if _, err := s.ToggleCompletion(orig.ID); err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	clock.Advance(time.Hour)

	due := clock.Now().Add(24 * time.Hour)
	updated, err := s.Update(orig.ID, Fields{
		Title:          "Final",
		Description:    "ship it",
		Priority:       task.PriorityHigh,
		Category:       task.CategoryLearning,
		DueDate:        &due,
		EstimatedHours: ptr(2.5),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.ID != orig.ID || !updated.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("identity changed: %s@%v, want %s@%v", updated.ID, updated.CreatedAt, orig.ID, orig.CreatedAt)
	}
	if !updated.Completed {
		t.Error("update must not touch completion")
	}
	if updated.Title != "Final" || updated.Description != "ship it" {
		t.Errorf("text fields = %q/%q", updated.Title, updated.Description)
	}
	if updated.Priority != task.PriorityHigh || updated.Category != task.CategoryLearning {
		t.Errorf("priority/category = %q/%q", updated.Priority, updated.Category)
	}
	if updated.EstimatedHours == nil || *updated.EstimatedHours != 2.5 {
		t.Errorf("EstimatedHours = %v, want 2.5", updated.EstimatedHours)
	}

	stored, err := s.Get(orig.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(stored, updated) {
		t.Errorf("stored = %+v, want %+v", stored, updated)
	}
}

func TestStoreUpdateRejectsEmptyTitle(t *testing.T) {
	s, _ := newTestStore(t)
	orig := mustCreate(t, s, Fields{Title: "Keep me"})

	_, err := s.Update(orig.ID, Fields{Title: " "})
	var inputErr tderrors.InvalidInputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Update error = %v, want InvalidInputError", err)
	}

	stored, _ := s.Get(orig.ID)
	if stored.Title != "Keep me" {
		t.Errorf("Title = %q, want unchanged", stored.Title)
	}
}

func TestStoreMissingIDIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	mustCreate(t, s, Fields{Title: "only"})
	before := s.List()

	_, updateErr := s.Update("nope", Fields{Title: "x"})
	_, toggleErr := s.ToggleCompletion("nope")
	deleteErr := s.Delete("nope")
	_, getErr := s.Get("nope")

	for name, err := range map[string]error{
		"Update": updateErr, "ToggleCompletion": toggleErr, "Delete": deleteErr, "Get": getErr,
	} {
		var notFound tderrors.TaskNotFoundError
		if !errors.As(err, &notFound) || notFound.ID != "nope" {
			t.Errorf("%s error = %v, want TaskNotFoundError{nope}", name, err)
		}
	}

	if !reflect.DeepEqual(s.List(), before) {
		t.Errorf("collection changed: %+v", s.List())
	}
}

func TestStoreToggleTwiceRoundTrips(t *testing.T) {
	s, _ := newTestStore(t)
	orig := mustCreate(t, s, Fields{Title: "Walk"})

	first, err := s.ToggleCompletion(orig.ID)
	if err != nil || !first.Completed {
		t.Fatalf("first toggle = %v, %v; want completed", first.Completed, err)
	}
	second, err := s.ToggleCompletion(orig.ID)
	if err != nil || second.Completed != orig.Completed {
		t.Errorf("second toggle = %v, %v; want %v", second.Completed, err, orig.Completed)
	}
}

func TestStoreDelete(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustCreate(t, s, Fields{Title: "a"})
	b := mustCreate(t, s, Fields{Title: "b"})

	if err := s.Delete(a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	list := s.List()
	if len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("List = %v, want only %s", ids(list), b.ID)
	}
}

func TestStoreListReturnsCopies(t *testing.T) {
	s, _ := newTestStore(t)
	mustCreate(t, s, Fields{Title: "original"})

	list := s.List()
	list[0].Title = "hacked"
	list[0].Tags = append(list[0].Tags, "oops")

	fresh := s.List()
	if fresh[0].Title != "original" || len(fresh[0].Tags) != 0 {
		t.Errorf("stored task mutated through List: %+v", fresh[0])
	}
}

func TestStoreImport(t *testing.T) {
	s, clock := newTestStore(t)
	existing := mustCreate(t, s, Fields{Title: "existing"})

	err := s.Import([]task.Task{
		{ID: "aaa", Title: "first", Priority: task.PriorityHigh},
		{Title: "second"},
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("Len = %d, want 3", len(list))
	}
	if list[0].ID != existing.ID || list[1].ID != "aaa" || list[2].Title != "second" {
		t.Errorf("order = %v", ids(list))
	}
	second := list[2]
	if second.ID == "" {
		t.Error("imported task without id should get one")
	}
	if second.Priority != task.PriorityMedium {
		t.Errorf("Priority = %q, want default", second.Priority)
	}
	if !second.CreatedAt.Equal(clock.Now()) {
		t.Errorf("CreatedAt = %v, want %v", second.CreatedAt, clock.Now())
	}
	if second.Tags == nil || len(second.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty slice", second.Tags)
	}
}

func TestStoreImportIsAtomic(t *testing.T) {
	tests := []struct {
		name    string
		batch   []task.Task
		wantErr error
	}{
		{"empty title", []task.Task{{ID: "ok1", Title: "fine"}, {ID: "bad", Title: ""}}, tderrors.InvalidInputError{}},
		{"duplicate in batch", []task.Task{{ID: "dup", Title: "a"}, {ID: "dup", Title: "b"}}, tderrors.AlreadyExistsError{}},
		{"bad priority", []task.Task{{ID: "p", Title: "a", Priority: "asap"}}, tderrors.InvalidPriorityError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)

			err := s.Import(tt.batch)
			if reflect.TypeOf(err) != reflect.TypeOf(tt.wantErr) {
				t.Fatalf("Import error = %T (%v), want %T", err, err, tt.wantErr)
			}
			if s.Len() != 0 {
				t.Errorf("Len = %d, want 0", s.Len())
			}
		})
	}
}

func TestStoreImportRejectsDeletedID(t *testing.T) {
	s, _ := newTestStore(t)
	created := mustCreate(t, s, Fields{Title: "gone soon"})
	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	err := s.Import([]task.Task{{ID: created.ID, Title: "revenant"}})
	var exists tderrors.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Errorf("Import error = %v, want AlreadyExistsError", err)
	}
}
