package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abatilo/taskdeck/internal/task"
	"gopkg.in/yaml.v3"
)

const fileExt = ".md"

// seedFile is the YAML document read by LoadSeed and written by WriteYAML.
type seedFile struct {
	Tasks []taskRecord `yaml:"tasks"`
}

// LoadSeed reads tasks from a YAML seed file, or from every markdown file in
// a directory. YAML tasks keep document order; markdown tasks follow their
// recorded position, then most-recently-created first.
func LoadSeed(path string) ([]task.Task, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, SeedError{Path: path, Err: err}
	}

	var tasks []task.Task
	if info.IsDir() {
		tasks, err = loadMarkdownDir(path)
	} else {
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, SeedError{Path: path, Err: err}
		}
		defer f.Close()
		tasks, err = DecodeYAML(f)
	}
	if err != nil {
		return nil, SeedError{Path: path, Err: err}
	}
	return tasks, nil
}

// DecodeYAML decodes a seed document. An empty document yields no tasks.
func DecodeYAML(r io.Reader) ([]task.Task, error) {
	var doc seedFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &parseError{"invalid YAML: " + err.Error()}
	}

	tasks := make([]task.Task, 0, len(doc.Tasks))
	for i, rec := range doc.Tasks {
		t, err := rec.toTask()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// WriteYAML encodes tasks as a seed document.
func WriteYAML(w io.Writer, tasks []task.Task) error {
	doc := seedFile{Tasks: make([]taskRecord, len(tasks))}
	for i, t := range tasks {
		doc.Tasks[i] = toRecord(t)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// WriteMarkdownDir writes one <id>.md file per task into dir, creating it
// if needed. Each file records its position so LoadSeed restores the
// collection order.
func WriteMarkdownDir(dir string, tasks []task.Task) error {
	//nolint:gosec // G301: 0755 is appropriate for user-accessible export directory
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, t := range tasks {
		rec := toRecord(t)
		pos := i
		rec.Position = &pos

		content, err := serializeRecord(rec)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", t.ID, err)
		}
		//nolint:gosec // G306: 0644 is appropriate for user-readable export files
		if err = os.WriteFile(filepath.Join(dir, t.ID+fileExt), content, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// markdownEntry is a task read from a directory, with its recorded
// position if the file has one.
type markdownEntry struct {
	task     task.Task
	position *int
}

// less orders entries with a position by it, ahead of entries without one.
// The rest go most-recently-created first, ties broken by ID.
func (e markdownEntry) less(o markdownEntry) bool {
	switch {
	case e.position != nil && o.position != nil:
		if *e.position != *o.position {
			return *e.position < *o.position
		}
	case e.position != nil:
		return true
	case o.position != nil:
		return false
	}
	if !e.task.CreatedAt.Equal(o.task.CreatedAt) {
		return e.task.CreatedAt.After(o.task.CreatedAt)
	}
	return e.task.ID < o.task.ID
}

func loadMarkdownDir(dir string) ([]task.Task, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var entries []markdownEntry
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		rec, err := parseMarkdownRecord(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		t, err := rec.toTask()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if t.ID == "" {
			t.ID = strings.TrimSuffix(entry.Name(), fileExt)
		}
		entries = append(entries, markdownEntry{task: t, position: rec.Position})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].less(entries[j])
	})

	tasks := make([]task.Task, len(entries))
	for i, e := range entries {
		tasks[i] = e.task
	}
	return tasks, nil
}
