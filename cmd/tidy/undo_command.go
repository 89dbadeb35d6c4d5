package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tidy/internal/config"
	"tidy/internal/organizer"
	"tidy/internal/runner"
	"tidy/internal/services"
)

type undoOutput struct {
	Status string                `json:"status"`
	Kind   services.Kind         `json:"kind,omitempty"`
	Error  string                `json:"error,omitempty"`
	Result *organizer.UndoResult `json:"result,omitempty"`
}

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Move the files of the last organize run back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(cfg *config.Config, engine *organizer.Engine, logger *slog.Logger) error {
				r := runner.New(engine, cfg.LockPath(), logger)
				job, err := r.StartUndo(cmd.Context())
				if err != nil {
					return reportUndo(cmd, organizer.UndoResult{}, err, jsonOutput)
				}
				newProgressView(cmd, "Restoring", !jsonOutput && !quiet).follow(job.Events())
				result, err := job.Wait()
				if err == nil && quiet && !jsonOutput && len(result.Failed) == 0 {
					return nil
				}
				return reportUndo(cmd, result, err, jsonOutput)
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the outcome as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress and the summary")
	return cmd
}

func reportUndo(cmd *cobra.Command, result organizer.UndoResult, err error, jsonOutput bool) error {
	if jsonOutput {
		payload := undoOutput{Status: "success", Kind: services.KindOf(err), Result: &result}
		if err != nil {
			payload.Status = "error"
			payload.Error = err.Error()
			if errors.Is(err, services.ErrNoUndoLog) {
				payload.Result = nil
			}
		}
		if err != nil {
			return writeJSONFailure(cmd, payload)
		}
		return writeJSON(cmd, payload)
	}

	if errors.Is(err, services.ErrNoUndoLog) {
		fmt.Fprintln(cmd.ErrOrStderr(), "No undo log found.")
		return errReported
	}
	if err != nil {
		if result.Restored > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Restored %d file(s) before the failure; run undo again once fixed.\n", result.Restored)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Files restored successfully!")
	fmt.Fprintf(out, "Restored %d file(s)\n", result.Restored)
	if len(result.Failed) > 0 {
		rows := make([][]string, 0, len(result.Failed))
		for _, failure := range result.Failed {
			rows = append(rows, []string{failure.Record.OriginalPath, failure.Reason})
		}
		fmt.Fprintf(out, "%d file(s) could not be restored and remain in the undo log:\n", len(result.Failed))
		printTable(out, []string{"Original path", "Reason"}, rows, nil)
	}
	for _, dir := range result.RemovedDirs {
		fmt.Fprintf(out, "Removed empty folder %s\n", dir)
	}
	return nil
}
