package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"
)

// DefaultPrompt is printed before each line is read.
const DefaultPrompt = "taskdeck> "

// Executor runs one parsed command line.
type Executor func(args []string) error

// Session is an interactive shell that owns a single in-memory task list for
// its lifetime.
type Session struct {
	ID        string
	StartedAt time.Time
	Prompt    string

	// Commands counts the lines handed to the executor.
	Commands int
}

// New creates a session with a fresh ID.
func New(prompt string) *Session {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Prompt:    prompt,
	}
}

// Run reads command lines from in until EOF, an exit command, or context
// cancellation. Blank lines and lines starting with # are skipped. Errors from
// splitting or executing a line are written to out and do not end the session.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer, exec Executor) error {
	scanner := bufio.NewScanner(in)
	parser := shellwords.NewParser()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, s.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		args, err := parser.Parse(line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		s.Commands++
		if err = exec(args); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}
