package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"icane/internal/application/commands"
	"icane/internal/domain"
)

var treeDepth int

var treeCmd = &cobra.Command{
	Use:   "tree <api-path>",
	Short: "Display a metadata payload as a tree",
	Long: `Display the hierarchy of a metadata payload. Leaf nodes end descent.

Example:
  icane-cli tree section/society
  icane-cli tree section/society --depth 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buildCmd := commands.NewBuildTreeCommand(GetMirror(), args[0], GetConfig().Leaves())
		root, err := buildCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		printTree(root, 0)
		return nil
	},
}

func printTree(node *domain.TreeNode, depth int) {
	if node == nil {
		return
	}
	if node.Source != nil {
		if treeDepth > 0 && depth >= treeDepth {
			return
		}
		indent := strings.Repeat("  ", depth)
		marker := "+"
		if node.IsLeaf() {
			marker = "-"
		}
		fmt.Printf("%s%s %s  %s [%s]\n", indent, marker, node.ID, node.Name, node.Type)
		depth++
	}

	for _, child := range node.Children {
		printTree(child, depth)
	}
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", 0, "maximum depth to print (0 for all)")
	rootCmd.AddCommand(treeCmd)
}
