package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tidy/internal/config"
	"tidy/internal/organizer"
	"tidy/internal/preflight"
	"tidy/internal/runner"
	"tidy/internal/services"
	"tidy/internal/undolog"
)

type statusOutput struct {
	ConfigPath   string             `json:"config_path"`
	ConfigExists bool               `json:"config_exists"`
	Backend      string             `json:"backend"`
	UndoLog      string             `json:"undo_log"`
	UndoPresent  bool               `json:"undo_present"`
	Pending      int                `json:"pending"`
	RunActive    bool               `json:"run_active"`
	Strict       bool               `json:"strict"`
	Categories   []string           `json:"categories"`
	Checks       []preflight.Result `json:"checks"`
	Records      []undolog.Record   `json:"records,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var showRecords bool
	var folder string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the undo log and path checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(cfg *config.Config, engine *organizer.Engine, logger *slog.Logger) error {
				status, err := collectStatus(cmd, ctx, cfg, engine, folder)
				if err != nil {
					return err
				}
				if !showRecords {
					status.Records = nil
				}
				if jsonOutput {
					return writeJSON(cmd, status)
				}
				renderStatus(cmd, status, showRecords)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print status as JSON")
	cmd.Flags().BoolVar(&showRecords, "records", false, "List the pending undo records")
	cmd.Flags().StringVar(&folder, "folder", "", "Also check access to this folder")
	return cmd
}

func collectStatus(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, engine *organizer.Engine, folder string) (statusOutput, error) {
	status := statusOutput{
		ConfigPath:   ctx.configPath,
		ConfigExists: ctx.configSeen,
		Backend:      cfg.Undo.Backend,
		UndoLog:      undoLocation(cfg),
		Strict:       cfg.Undo.Strict,
		Categories:   engine.Classifier().Categories(),
		Checks:       preflight.RunAll(cfg),
	}
	if strings.TrimSpace(folder) != "" {
		status.Checks = append(status.Checks, preflight.CheckDirectoryAccess("Target folder", folder))
	}

	held, err := runner.Held(cfg.LockPath())
	if err != nil {
		return status, fmt.Errorf("check run lock: %w", err)
	}
	status.RunActive = held

	records, err := engine.Pending(cmd.Context())
	switch {
	case errors.Is(err, services.ErrNoUndoLog):
	case err != nil:
		return status, err
	default:
		status.UndoPresent = true
		status.Pending = len(records)
		status.Records = records
	}
	return status, nil
}

func renderStatus(cmd *cobra.Command, status statusOutput, showRecords bool) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	var lines []string
	lines = append(lines, renderSectionHeader("tidy status", colorize)...)

	configDetail := status.ConfigPath
	if !status.ConfigExists {
		configDetail += " (not found, using defaults)"
	}
	lines = append(lines,
		renderStatusLine("Config", statusInfo, configDetail, colorize),
		renderStatusLine("Undo backend", statusInfo, status.Backend, colorize),
		renderStatusLine("Undo log", statusInfo, status.UndoLog, colorize),
		renderStatusLine("Strict undo", statusInfo, yesNo(status.Strict), colorize),
	)

	lines = append(lines, pendingLine(status.UndoPresent, status.Pending, colorize))

	if status.RunActive {
		lines = append(lines, renderStatusLine("Run in progress", statusWarn, "yes", colorize))
	} else {
		lines = append(lines, renderStatusLine("Run in progress", statusOK, "no", colorize))
	}
	lines = append(lines, renderStatusLine("Categories", statusInfo, strings.Join(status.Categories, ", "), colorize))

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Path checks", colorize)...)
	lines = append(lines, checkLines(status.Checks, colorize)...)

	for _, line := range lines {
		fmt.Fprintln(out, line)
	}

	if showRecords && len(status.Records) > 0 {
		rows := make([][]string, 0, len(status.Records))
		for i, rec := range status.Records {
			rows = append(rows, []string{strconv.Itoa(i + 1), rec.NewPath, rec.OriginalPath})
		}
		fmt.Fprintln(out)
		printTable(out, []string{"#", "Organized path", "Original path"}, rows, []columnAlignment{alignRight})
	}
}
