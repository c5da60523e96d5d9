package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"icane/internal/application/commands"
	"icane/internal/config"
	"icane/internal/domain"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored export runs",
	Long: `List the export runs stored in the database, newest first.

Examples:
  icane-cli runs
  icane-cli runs show 0b6f0e1c-5d2a-4f7e-9a51-3c1e2b7d9f00 -o csv
  icane-cli runs delete 0b6f0e1c-5d2a-4f7e-9a51-3c1e2b7d9f00`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(cmd.Context())
		if err != nil {
			return err
		}

		switch GetConfig().Output.Format {
		case config.FormatJSON, config.FormatYAML:
			return encode(os.Stdout, GetConfig().Output.Format, runs)
		}
		if len(runs) == 0 {
			fmt.Println("No runs")
			return nil
		}
		rows := make([][]string, len(runs))
		for i, r := range runs {
			rows[i] = []string{
				r.ID, string(r.Kind), r.Source, strconv.Itoa(r.Rows),
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			}
		}
		renderTable(os.Stdout, []string{"id", "kind", "source", "rows", "created"}, rows)
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the rows of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		run, rows, err := store.RunRows(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		table := &commands.Table{
			Kind:   run.Kind,
			Source: run.Source,
			Header: run.Header,
			Rows: func(yield func(domain.Row, error) bool) {
				for _, r := range rows {
					if !yield(r, nil) {
						return
					}
				}
			},
		}
		_, err = printTable(cmd.Context(), os.Stdout, table)
		return err
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a stored run and its rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted run %s\n", args[0])
		return nil
	},
}

func init() {
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}
