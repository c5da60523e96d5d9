package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"icane/internal/application/commands"
	"icane/internal/config"
	"icane/internal/domain"
	"icane/internal/errors"
)

var digestCmd = &cobra.Command{
	Use:   "digest <uri-tag>",
	Short: "Show the indexed digest of a metadata node",
	Long: `Show the 34-column digest of a metadata node from the SQLite index.

The table format prints one line per column; csv, json and yaml print the
digest as a single metadata row. Run 'icane-cli sync' first.

Examples:
  icane-cli digest population-census
  icane-cli digest -o json labour`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, ok, err := openIndex()
		if err != nil {
			return err
		}
		if !ok {
			return errors.WithHint(
				errors.NewNotFoundError("index %s", GetConfig().Database.Path),
				"run 'icane-cli sync' to build it")
		}
		defer store.Close()

		row, err := store.Digest(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if GetConfig().Output.Format == config.FormatTable {
			cells := make([][]string, len(row))
			for i, v := range row {
				cells[i] = []string{domain.DigestColumns[i], domain.FormatValue(v)}
			}
			renderTable(os.Stdout, []string{"column", "value"}, cells)
			return nil
		}

		t := &commands.Table{
			Kind:   domain.RowKindMetadata,
			Source: args[0],
			Header: append([]string(nil), domain.DigestColumns...),
			Rows: func(yield func(domain.Row, error) bool) {
				yield(row, nil)
			},
		}
		_, err = printTable(cmd.Context(), os.Stdout, t)
		return err
	},
}

func init() {
	rootCmd.AddCommand(digestCmd)
}
