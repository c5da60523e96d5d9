package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"icane/internal/application/commands"
	"icane/internal/config"
)

var (
	tsSection    string
	tsSubsection string
	tsDataSet    string
	tsNodeType   string
	tsInactive   bool
)

var timeSeriesCmd = &cobra.Command{
	Use:   "timeseries <category>",
	Short: "List the nodes of a category",
	Long: `List the time-series nodes of a category, optionally narrowed by section,
subsection and data set.

Examples:
  icane-cli timeseries regional-data
  icane-cli timeseries regional-data --section society --subsection population
  icane-cli timeseries regional-data --node-type time-series --inactive`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listCmd := commands.NewTimeSeriesListCommand(GetMirror(), args[0])
		listCmd.Section = tsSection
		listCmd.Subsection = tsSubsection
		listCmd.DataSet = tsDataSet
		listCmd.Query.NodeType = tsNodeType
		if cmd.Flags().Changed("inactive") {
			listCmd.Query.Inactive = &tsInactive
		}

		nodes, err := listCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		return printNodes(os.Stdout, nodes)
	},
}

var parentsCmd = &cobra.Command{
	Use:   "parents <uri-tag>",
	Short: "List the ancestors of a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, err := commands.NewParentsCommand(GetMirror(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		return printNodes(os.Stdout, nodes)
	},
}

var lastUpdatedCmd = &cobra.Command{
	Use:       "last-updated <data|metadata>",
	Short:     "Show when data or metadata last changed",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"data", "metadata"},
	RunE: func(cmd *cobra.Command, args []string) error {
		got, err := commands.NewLastUpdatedCommand(GetMirror(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		switch GetConfig().Output.Format {
		case config.FormatJSON, config.FormatYAML:
			return encode(os.Stdout, GetConfig().Output.Format, map[string]string{
				"entity": got.Entity.String(),
				"millis": got.Millis,
				"date":   got.Date,
			})
		default:
			renderTable(os.Stdout, []string{"entity", "date", "millis"},
				[][]string{{got.Entity.String(), got.Date, got.Millis}})
			return nil
		}
	},
}

func init() {
	timeSeriesCmd.Flags().StringVar(&tsSection, "section", "", "section uriTag")
	timeSeriesCmd.Flags().StringVar(&tsSubsection, "subsection", "", "subsection uriTag (needs --section)")
	timeSeriesCmd.Flags().StringVar(&tsDataSet, "data-set", "", "data set uriTag (needs --subsection)")
	timeSeriesCmd.Flags().StringVar(&tsNodeType, "node-type", "", "only nodes of this node type")
	timeSeriesCmd.Flags().BoolVar(&tsInactive, "inactive", false, "include inactive nodes")

	rootCmd.AddCommand(timeSeriesCmd)
	rootCmd.AddCommand(parentsCmd)
	rootCmd.AddCommand(lastUpdatedCmd)
}
