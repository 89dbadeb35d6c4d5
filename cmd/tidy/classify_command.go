package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidy/internal/classifier"
)

type classification struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var listCategories bool

	cmd := &cobra.Command{
		Use:   "classify <name>...",
		Short: "Print the category chosen for each file name",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cls := classifier.New(cfg.Categories.Extra)

			if listCategories {
				if jsonOutput {
					return writeJSON(cmd, cls.Categories())
				}
				for _, name := range cls.Categories() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("classify: at least one file name is required")
			}

			results := make([]classification, 0, len(args))
			for _, name := range args {
				results = append(results, classification{Name: name, Category: cls.Classify(name)})
			}
			if jsonOutput {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, r.Category})
			}
			printTable(cmd.OutOrStdout(), []string{"Name", "Category"}, rows, nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&listCategories, "categories", false, "List every known category")
	return cmd
}
