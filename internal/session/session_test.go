//nolint:testpackage // Tests require internal access for thorough testing
package session

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type recorder struct {
	calls [][]string
	fail  string
}

func (r *recorder) exec(args []string) error {
	r.calls = append(r.calls, args)
	if r.fail != "" && args[0] == r.fail {
		return errors.New("boom")
	}
	return nil
}

func TestNew(t *testing.T) {
	s := New("")
	if s.Prompt != DefaultPrompt {
		t.Errorf("Prompt = %q, want %q", s.Prompt, DefaultPrompt)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", s.ID, err)
	}
	if s.StartedAt.IsZero() {
		t.Error("StartedAt should be set")
	}

	other := New("> ")
	if other.ID == s.ID {
		t.Error("sessions should get distinct IDs")
	}
	if other.Prompt != "> " {
		t.Errorf("Prompt = %q, want %q", other.Prompt, "> ")
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "splits quoted arguments",
			input: "add \"Buy milk\" --priority high\nlist --status 'pending'\n",
			want: [][]string{
				{"add", "Buy milk", "--priority", "high"},
				{"list", "--status", "pending"},
			},
		},
		{
			name:  "skips blanks and comments",
			input: "\n   \n# a note\nstats\n",
			want:  [][]string{{"stats"}},
		},
		{
			name:  "exit stops reading",
			input: "stats\nexit\nlist\n",
			want:  [][]string{{"stats"}},
		},
		{
			name:  "quit stops reading",
			input: "quit\nstats\n",
			want:  nil,
		},
		{
			name:  "eof without trailing newline",
			input: "show abc",
			want:  [][]string{{"show", "abc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			var out bytes.Buffer
			s := New("> ")

			if err := s.Run(context.Background(), strings.NewReader(tt.input), &out, rec.exec); err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			if !slices.EqualFunc(rec.calls, tt.want, slices.Equal[[]string]) {
				t.Errorf("calls = %q, want %q", rec.calls, tt.want)
			}
			if s.Commands != len(tt.want) {
				t.Errorf("Commands = %d, want %d", s.Commands, len(tt.want))
			}
		})
	}
}

func TestRunReportsErrorsAndContinues(t *testing.T) {
	rec := &recorder{fail: "rm"}
	var out bytes.Buffer
	s := New("> ")

	input := "add \"unterminated\nrm abc\nstats\n"
	if err := s.Run(context.Background(), strings.NewReader(input), &out, rec.exec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(rec.calls) != 2 {
		t.Fatalf("calls = %q, want rm and stats only", rec.calls)
	}
	if got := strings.Count(out.String(), "error:"); got != 2 {
		t.Errorf("error lines = %d, want 2; output:\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), "error: boom") {
		t.Errorf("output missing executor error:\n%s", out.String())
	}
}

func TestRunPrintsPrompt(t *testing.T) {
	var out bytes.Buffer
	s := New("deck> ")

	if err := s.Run(context.Background(), strings.NewReader("stats\n"), &out, (&recorder{}).exec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := strings.Count(out.String(), "deck> "); got != 2 {
		t.Errorf("prompt printed %d times, want 2", got)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	err := New("").Run(ctx, strings.NewReader("stats\n"), &bytes.Buffer{}, rec.exec)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("calls = %q, want none", rec.calls)
	}
}
