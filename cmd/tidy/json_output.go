package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONFailure prints a failure payload and returns errReported so main
// exits non-zero without repeating the message.
func writeJSONFailure(cmd *cobra.Command, payload any) error {
	if err := writeJSON(cmd, payload); err != nil {
		return err
	}
	return errReported
}
