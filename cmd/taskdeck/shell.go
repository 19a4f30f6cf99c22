package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abatilo/taskdeck/internal/session"
)

// shellCmd implements 'taskdeck shell'. Every line runs as a full command
// against the same store, so tasks live until the shell exits.
func shellCmd(a *app) *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s := session.New(prompt)

			parent := a.log
			a.log = parent.With(zap.String("session_id", s.ID))
			defer func() { a.log = parent }()
			a.log.Info("session started", zap.Int("tasks", a.store.Len()))

			err := s.Run(ctx, a.in, a.out, func(args []string) error {
				if args[0] == "shell" {
					return errors.New("already in a shell")
				}
				// Errors are printed by execute; the session keeps going.
				a.execute(ctx, args)
				return nil
			})

			a.log.Info("session ended",
				zap.Int("commands", s.Commands),
				zap.Duration("duration", time.Since(s.StartedAt)))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", session.DefaultPrompt, "Prompt shown before each command")
	return cmd
}
