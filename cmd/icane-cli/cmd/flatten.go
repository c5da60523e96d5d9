package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"icane/internal/adapters/filesystem"
	"icane/internal/application/commands"
	"icane/internal/domain"
)

var (
	flattenFile  string
	valueColumn  string
	flattenLimit int
)

var dataCmd = &cobra.Command{
	Use:   "data [api-path]",
	Short: "Flatten a data payload into one row per observation",
	Long: `Flatten a data payload into rows of dimension keys followed by the value.

The payload is read from the mirror by API path, or from --file ("-" for stdin).

Examples:
  icane-cli data time-series/population-census/data
  icane-cli data --file census.json -o csv
  curl -s https://www.icane.es/data/api/population-census/data.json | icane-cli data -f -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var flattenCmd *commands.FlattenDataCommand
		if flattenFile != "" {
			payload, err := filesystem.ReadFile(flattenFile)
			if err != nil {
				return err
			}
			flattenCmd = commands.NewFlattenDataPayloadCommand(payload, flattenFile)
		} else {
			flattenCmd = commands.NewFlattenDataCommand(GetMirror(), firstArg(args))
		}
		flattenCmd.ValueColumn = valueColumn

		table, err := flattenCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		_, err = printTable(cmd.Context(), os.Stdout, limitTable(table, flattenLimit))
		return err
	},
}

var metadataCmd = &cobra.Command{
	Use:   "metadata [api-path]",
	Short: "Flatten a metadata hierarchy into digest rows",
	Long: `Flatten a metadata node, or a list of them, into one digest row per node
in pre-order. Descent stops at nodes whose type is a leaf type.

Examples:
  icane-cli metadata section/society
  icane-cli metadata --file society.json --leaf-types time-series -o csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var flattenCmd *commands.FlattenMetadataCommand
		if flattenFile != "" {
			payload, err := filesystem.ReadFile(flattenFile)
			if err != nil {
				return err
			}
			flattenCmd = commands.NewFlattenMetadataPayloadCommand(payload, flattenFile, GetConfig().Leaves())
		} else {
			flattenCmd = commands.NewFlattenMetadataCommand(GetMirror(), firstArg(args), GetConfig().Leaves())
		}

		table, err := flattenCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		_, err = printTable(cmd.Context(), os.Stdout, limitTable(table, flattenLimit))
		return err
	},
}

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List the digest columns of flattened metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := make([][]string, len(domain.DigestColumns))
		for i, c := range domain.DigestColumns {
			rows[i] = []string{strconv.Itoa(i + 1), c}
		}
		renderTable(os.Stdout, []string{"#", "column"}, rows)
		return nil
	},
}

// limitTable stops a table's rows after n. Zero or less keeps every row.
func limitTable(t *commands.Table, n int) *commands.Table {
	if n <= 0 {
		return t
	}
	rows := t.Rows
	limited := *t
	limited.Rows = func(yield func(domain.Row, error) bool) {
		i := 0
		for row, err := range rows {
			if i == n || !yield(row, err) || err != nil {
				return
			}
			i++
		}
	}
	return &limited
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	for _, c := range []*cobra.Command{dataCmd, metadataCmd} {
		c.Flags().StringVarP(&flattenFile, "file", "f", "", `read the payload from a file ("-" for stdin)`)
		c.Flags().IntVarP(&flattenLimit, "limit", "n", 0, "stop after n rows")
	}
	dataCmd.Flags().StringVar(&valueColumn, "value-column", commands.DefaultValueColumn, "name of the value column")

	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(columnsCmd)
}
