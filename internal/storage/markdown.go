package storage

import (
	"bytes"
	"strings"
	"time"

	"github.com/abatilo/taskdeck/internal/task"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// taskRecord is the YAML-serializable form of a task shared by the markdown
// frontmatter and the seed file.
type taskRecord struct {
	ID             string   `yaml:"id,omitempty"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description,omitempty"`
	Priority       string   `yaml:"priority,omitempty"`
	Category       string   `yaml:"category,omitempty"`
	Completed      bool     `yaml:"completed"`
	CreatedAt      string   `yaml:"created_at,omitempty"`
	DueDate        *string  `yaml:"due_date,omitempty"`
	Tags           []string `yaml:"tags,omitempty"`
	EstimatedHours *float64 `yaml:"estimated_hours,omitempty"`

	// Position is the index in the exported collection. Only markdown
	// directory exports write it.
	Position *int `yaml:"position,omitempty"`
}

func toRecord(t task.Task) taskRecord {
	r := taskRecord{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Priority:       string(t.Priority),
		Category:       string(t.Category),
		Completed:      t.Completed,
		Tags:           t.Tags,
		EstimatedHours: t.EstimatedHours,
	}
	if !t.CreatedAt.IsZero() {
		r.CreatedAt = t.CreatedAt.Format(time.RFC3339Nano)
	}
	if t.DueDate != nil {
		s := t.DueDate.Format(time.RFC3339Nano)
		r.DueDate = &s
	}
	return r
}

func (r taskRecord) toTask() (task.Task, error) {
	t := task.Task{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Priority:       task.Priority(r.Priority),
		Category:       task.Category(r.Category),
		Completed:      r.Completed,
		Tags:           r.Tags,
		EstimatedHours: r.EstimatedHours,
	}
	if r.CreatedAt != "" {
		createdAt, err := ParseTime(r.CreatedAt)
		if err != nil {
			return task.Task{}, &parseError{"invalid created_at: " + err.Error()}
		}
		t.CreatedAt = createdAt
	}
	if r.DueDate != nil && *r.DueDate != "" {
		due, err := ParseTime(*r.DueDate)
		if err != nil {
			return task.Task{}, &parseError{"invalid due_date: " + err.Error()}
		}
		t.DueDate = &due
	}
	return t.Clone(), nil
}

// ParseMarkdown parses a markdown file with YAML frontmatter into a Task.
// The body after the frontmatter becomes the description.
func ParseMarkdown(content []byte) (task.Task, error) {
	rec, err := parseMarkdownRecord(content)
	if err != nil {
		return task.Task{}, err
	}
	return rec.toTask()
}

func parseMarkdownRecord(content []byte) (taskRecord, error) {
	lines := strings.Split(string(content), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return taskRecord{}, &parseError{"missing YAML frontmatter"}
	}

	var frontmatterEnd int
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			frontmatterEnd = i
			break
		}
	}
	if frontmatterEnd == 0 {
		return taskRecord{}, &parseError{"unclosed YAML frontmatter"}
	}

	yamlContent := strings.Join(lines[1:frontmatterEnd], "\n")
	var rec taskRecord
	if err := yaml.Unmarshal([]byte(yamlContent), &rec); err != nil {
		return taskRecord{}, &parseError{"invalid YAML: " + err.Error()}
	}

	if frontmatterEnd+1 < len(lines) {
		rec.Description = strings.TrimSpace(strings.Join(lines[frontmatterEnd+1:], "\n"))
	}

	return rec, nil
}

// SerializeMarkdown converts a Task to markdown with YAML frontmatter.
func SerializeMarkdown(t task.Task) ([]byte, error) {
	return serializeRecord(toRecord(t))
}

func serializeRecord(rec taskRecord) ([]byte, error) {
	description := rec.Description
	rec.Description = "" // Stored as markdown body

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString(frontmatterDelimiter + "\n")

	if description != "" {
		buf.WriteString("\n")
		buf.WriteString(description)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ParseTime parses a timestamp in the formats accepted by seed files and
// the CLI. Forms without a zone are read in local time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, f := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	for _, f := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &parseError{"unrecognized time format: " + s}
}
