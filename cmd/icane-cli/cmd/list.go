package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"icane/internal/application/commands"
	"icane/internal/domain"
)

var listLanguage string

var listCmd = &cobra.Command{
	Use:   "list <entity>",
	Short: "List every entity of a kind",
	Long: `List every entity of a kind from the mirror.

Entities: ` + listableEntities() + `

Examples:
  icane-cli list sections
  icane-cli list measures -o json
  icane-cli list classes --lang en`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listEntities := commands.NewListEntitiesCommand(GetMirror(), args[0])
		listEntities.Language = listLanguage

		nodes, err := listEntities.Execute(cmd.Context())
		if err != nil {
			return err
		}
		return printNodes(os.Stdout, nodes)
	},
}

func listableEntities() string {
	var names []string
	for _, e := range domain.Entities() {
		if e.Listable() || e == domain.EntityClass {
			names = append(names, e.Plural())
		}
	}
	return strings.Join(names, ", ")
}

func init() {
	listCmd.Flags().StringVar(&listLanguage, "lang", commands.DefaultLanguage, "language of class descriptions")
	rootCmd.AddCommand(listCmd)
}
