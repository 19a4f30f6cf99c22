package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abatilo/taskdeck/internal/config"
	tderrors "github.com/abatilo/taskdeck/internal/errors"
	"github.com/abatilo/taskdeck/internal/logging"
	"github.com/abatilo/taskdeck/internal/output"
	"github.com/abatilo/taskdeck/internal/storage"
	"github.com/abatilo/taskdeck/internal/task"
)

// app carries the state shared by every command run in one process. The
// shell re-executes the command tree per line against the same app, so the
// store lives as long as the process.
type app struct {
	in     io.Reader
	out    io.Writer
	logOut io.Writer
	clock  func() time.Time

	cfg       *config.Config
	log       *logging.Logger
	store     *storage.Store
	formatter output.Formatter
	style     string
}

func newApp(in io.Reader, out, logOut io.Writer) *app {
	return &app{
		in:     in,
		out:    out,
		logOut: logOut,
		clock:  time.Now,
	}
}

// rootFlags are the persistent flags of one command-tree invocation.
type rootFlags struct {
	jsonOutput bool
	noColor    bool
	seed       string
	configPath string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := newApp(os.Stdin, os.Stdout, os.Stderr).execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// execute runs one command line and returns the process exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		a.printError(err)
		return 1
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:           "taskdeck",
		Short:         "An in-memory task list",
		Long:          "taskdeck - An in-memory task list with filtering, statistics and export.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := a.init(flags); err != nil {
				return err
			}
			return a.setFormatter(flags)
		},
	}
	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.out)

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flags.jsonOutput, "json", false, "Output in JSON format")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	pf.StringVar(&flags.seed, "seed", "", "Load tasks from a YAML file or markdown directory at startup")
	pf.StringVar(&flags.configPath, "config", "", "Config file (default .taskdeck.yaml in project root or home)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		addCmd(a),
		editCmd(a),
		toggleCmd(a),
		rmCmd(a),
		showCmd(a),
		listCmd(a),
		statsCmd(a),
		pruneCmd(a),
		exportCmd(a),
		shellCmd(a),
	)
	return rootCmd
}

// init loads config, logger, store and seed once per process. Later
// invocations from the shell reuse them.
func (a *app) init(flags rootFlags) error {
	if a.store != nil {
		if flags.seed != "" || flags.configPath != "" {
			a.log.Warn("startup flags ignored inside a running session",
				zap.String("seed", flags.seed), zap.String("config", flags.configPath))
		}
		return nil
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	a.log = logging.New(level, a.logOut)
	if cfg.File != "" {
		a.log.Debug("config loaded", zap.String("file", cfg.File))
	}

	store := storage.NewStore(
		storage.WithClock(a.clock),
		storage.WithDefaults(task.Priority(cfg.DefaultPriority), task.Category(cfg.DefaultCategory)),
	)

	seed := cfg.Seed
	if flags.seed != "" {
		seed = flags.seed
	}
	if seed != "" {
		tasks, loadErr := storage.LoadSeed(seed)
		if loadErr != nil {
			return loadErr
		}
		if err = store.Import(tasks); err != nil {
			return fmt.Errorf("seed %s: %w", seed, err)
		}
		a.log.Info("seed loaded", zap.String("path", seed), zap.Int("count", len(tasks)))
	}

	a.store = store
	return nil
}

func (a *app) setFormatter(flags rootFlags) error {
	style := a.cfg.Output
	if flags.jsonOutput {
		style = output.StyleJSON
	}
	f, err := output.New(a.out, style, a.cfg.Color && !flags.noColor)
	if err != nil {
		return err
	}
	a.formatter = f
	a.style = style
	return nil
}

func (a *app) print(s string) {
	_, _ = io.WriteString(a.out, s)
}

// printError reports err with the active formatter, falling back to plain
// text when startup failed before one was chosen.
func (a *app) printError(err error) {
	f := a.formatter
	if f == nil {
		f = output.NewHumanFormatter(a.out, false)
	}
	a.print(f.FormatError(err))
}

// printTask reports a mutation: a message followed by the record in human
// mode, the record alone in JSON mode.
func (a *app) printTask(msg string, t task.Task) {
	if a.style != output.StyleJSON {
		a.print(a.formatter.FormatMessage(msg))
	}
	a.print(a.formatter.FormatTask(t, a.store.Now()))
}

// softNotFound prints a not-found error as a message and reports whether err
// was one. A missing ID never fails a command.
func (a *app) softNotFound(err error) bool {
	var notFound tderrors.TaskNotFoundError
	if !errors.As(err, &notFound) {
		return false
	}
	a.log.Debug("task not found", zap.String("task_id", notFound.ID))
	a.print(a.formatter.FormatMessage(notFound.Error()))
	return true
}
