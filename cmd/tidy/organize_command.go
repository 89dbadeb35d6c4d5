package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"tidy/internal/config"
	"tidy/internal/organizer"
	"tidy/internal/runner"
	"tidy/internal/services"
)

type organizeOutput struct {
	Status string            `json:"status"`
	Kind   services.Kind     `json:"kind,omitempty"`
	Error  string            `json:"error,omitempty"`
	Result *organizer.Result `json:"result,omitempty"`
	Plan   *organizer.Plan   `json:"plan,omitempty"`
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var quiet bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize <folder>",
		Short: "Move the files of a folder into category subfolders",
		Long: "Move every regular file directly inside <folder> into a subfolder named after its\n" +
			"category (Images, Documents, Music, Videos, Others). Each move is recorded so\n" +
			"`tidy undo` can put the files back. Starting a new run discards the previous log.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := args[0]
			return ctx.withEngine(func(cfg *config.Config, engine *organizer.Engine, logger *slog.Logger) error {
				if dryRun {
					return runPlan(cmd, engine, folder, jsonOutput)
				}

				r := runner.New(engine, cfg.LockPath(), logger)
				job, err := r.StartOrganize(cmd.Context(), folder)
				if err != nil {
					return reportOrganize(cmd, organizer.Result{}, err, jsonOutput)
				}
				newProgressView(cmd, "Organizing", !jsonOutput && !quiet).follow(job.Events())
				result, err := job.Wait()
				if err == nil && quiet && !jsonOutput {
					return nil
				}
				return reportOrganize(cmd, result, err, jsonOutput)
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the outcome as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress and the summary table")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the planned moves without touching any file")
	return cmd
}

func reportOrganize(cmd *cobra.Command, result organizer.Result, err error, jsonOutput bool) error {
	out := cmd.OutOrStdout()
	empty := services.IsInformational(err)

	if jsonOutput {
		payload := organizeOutput{Status: "success", Kind: services.KindOf(err)}
		switch {
		case empty:
			payload.Status = "empty"
		case err != nil:
			payload.Status = "error"
			payload.Error = err.Error()
		default:
			payload.Result = &result
		}
		if err != nil && !empty {
			return writeJSONFailure(cmd, payload)
		}
		return writeJSON(cmd, payload)
	}

	switch {
	case empty:
		fmt.Fprintln(out, "No files found in folder.")
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintln(out, "Files organized successfully!")
	rows := make([][]string, 0, len(result.Categories))
	for _, name := range result.SortedCategories() {
		rows = append(rows, []string{name, strconv.Itoa(result.Categories[name])})
	}
	printTable(out, []string{"Category", "Files"}, rows, []columnAlignment{alignLeft, alignRight})
	fmt.Fprintf(out, "Moved %d file(s) in %s\n", result.Moved, result.Folder)
	return nil
}

func runPlan(cmd *cobra.Command, engine *organizer.Engine, folder string, jsonOutput bool) error {
	plan, err := engine.Plan(cmd.Context(), folder)
	if err != nil && !errors.Is(err, services.ErrEmpty) {
		if jsonOutput {
			return writeJSONFailure(cmd, organizeOutput{Status: "error", Kind: services.KindOf(err), Error: err.Error()})
		}
		return err
	}

	if jsonOutput {
		status := "planned"
		if err != nil {
			status = "empty"
		}
		return writeJSON(cmd, organizeOutput{Status: status, Kind: services.KindOf(err), Plan: &plan})
	}

	out := cmd.OutOrStdout()
	if err != nil {
		fmt.Fprintln(out, "No files found in folder.")
		return nil
	}
	rows := make([][]string, 0, len(plan.Moves))
	for _, mv := range plan.Moves {
		rows = append(rows, []string{mv.Name, mv.Category})
	}
	printTable(out, []string{"File", "Category"}, rows, nil)
	fmt.Fprintf(out, "%d file(s) would be moved in %s\n", len(plan.Moves), plan.Folder)
	return nil
}
