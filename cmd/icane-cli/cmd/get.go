package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"icane/internal/application/commands"
)

var getPath string

var getCmd = &cobra.Command{
	Use:   "get <entity> <uri-tag>",
	Short: "Show one entity",
	Long: `Show one entity of the metadata API as JSON (or YAML with -o yaml).

Examples:
  icane-cli get section economy
  icane-cli get time-series population-census
  icane-cli get --path time-series/population-census/parent`,
	Args: func(cmd *cobra.Command, args []string) error {
		if getPath != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var getEntity *commands.GetEntityCommand
		if getPath != "" {
			getEntity = commands.NewGetPathCommand(GetMirror(), getPath)
		} else {
			getEntity = commands.NewGetEntityCommand(GetMirror(), args[0], args[1])
		}

		n, err := getEntity.Execute(cmd.Context())
		if err != nil {
			return err
		}
		return printNode(os.Stdout, n)
	},
}

func init() {
	getCmd.Flags().StringVar(&getPath, "path", "", "raw API path instead of entity and uriTag")
	rootCmd.AddCommand(getCmd)
}
