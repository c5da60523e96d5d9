package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"icane/internal/adapters/csvsink"
	"icane/internal/adapters/filesystem"
	"icane/internal/application/commands"
	"icane/internal/domain"
	"icane/internal/errors"
	"icane/internal/logger"
	"icane/internal/ports"
)

var (
	exportKind string
	exportTo   string
	exportOut  string
	exportFile string
)

const (
	targetCSV    = "csv"
	targetSQLite = "sqlite"
)

var exportCmd = &cobra.Command{
	Use:   "export [api-path]",
	Short: "Flatten a payload into a CSV file or a stored run",
	Long: `Flatten a data or metadata payload and write every row to a CSV file or
to the SQLite database as a new export run. A failed flatten leaves no
partial run behind.

Examples:
  icane-cli export --kind data time-series/population-census/data --out census.csv
  icane-cli export --kind metadata section/society --to sqlite
  icane-cli export --kind data --file census.json --to sqlite`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := domain.ParseRowKind(exportKind)
		if !ok {
			return errors.NewInvalidRequestError("--kind must be data or metadata, got %q", exportKind)
		}

		table, err := flattenFor(cmd, kind, firstArg(args))
		if err != nil {
			return err
		}

		var (
			sink  ports.RowSink
			runID string
		)
		switch exportTo {
		case targetCSV:
			out, err := openOutput(exportOut)
			if err != nil {
				return err
			}
			s, err := csvsink.New(out, GetConfig().Output.Delimiter)
			if err != nil {
				out.Close()
				return err
			}
			sink = s
		case targetSQLite:
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			run, err := store.BeginRun(cmd.Context(), kind, table.Source)
			if err != nil {
				return err
			}
			sink, runID = run, run.ID()
		default:
			return errors.NewInvalidRequestError("--to must be csv or sqlite, got %q", exportTo)
		}

		n, err := commands.NewExportCommand(table, sink).Execute(cmd.Context())
		if err != nil {
			return err
		}

		logger.Logger.Infow("Exported rows",
			logger.FieldKind, string(kind),
			logger.FieldPath, table.Source,
			logger.FieldCount, n,
			logger.FieldRunID, runID)
		if runID != "" {
			fmt.Fprintf(os.Stderr, "Stored %d rows as run %s\n", n, runID)
		} else if exportOut != "" && exportOut != "-" {
			fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", n, exportOut)
		}
		return nil
	},
}

func flattenFor(cmd *cobra.Command, kind domain.RowKind, path string) (*commands.Table, error) {
	var payload any
	name := path
	if exportFile != "" {
		v, err := filesystem.ReadFile(exportFile)
		if err != nil {
			return nil, err
		}
		payload, name = v, exportFile
	}

	if kind == domain.RowKindData {
		flattenCmd := commands.NewFlattenDataCommand(GetMirror(), name)
		flattenCmd.Payload = payload
		return flattenCmd.Execute(cmd.Context())
	}
	flattenCmd := commands.NewFlattenMetadataCommand(GetMirror(), name, GetConfig().Leaves())
	flattenCmd.Payload = payload
	return flattenCmd.Execute(cmd.Context())
}

func init() {
	exportCmd.Flags().StringVarP(&exportKind, "kind", "k", string(domain.RowKindData), "payload kind: data or metadata")
	exportCmd.Flags().StringVar(&exportTo, "to", targetCSV, "target: csv or sqlite")
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "CSV output file")
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", `read the payload from a file ("-" for stdin)`)
	rootCmd.AddCommand(exportCmd)
}
