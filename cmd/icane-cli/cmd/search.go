package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"icane/internal/application/commands"
	"icane/internal/ports"
)

var (
	searchLimit  int
	searchMirror bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search metadata nodes",
	Long: `Search metadata nodes by title, uriTag or node type.

The SQLite index is used when it exists (see 'icane-cli sync'), otherwise
the mirror is walked. Results are ranked by relevance using fuzzy matching.

Examples:
  icane-cli search census
  icane-cli search --mirror labour`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var searcher ports.Searcher = GetMirror()
		if !searchMirror {
			if store, ok, err := openIndex(); err != nil {
				return err
			} else if ok {
				defer store.Close()
				searcher = store
			}
		}

		searchCommand := commands.NewSearchCommand(searcher, args[0])
		searchCommand.Limit = searchLimit
		results, err := searchCommand.Execute(cmd.Context())
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		rows := make([][]string, len(results))
		for i, r := range results {
			rows[i] = []string{r.ID, r.Name, r.Type, r.Path, strconv.Itoa(r.Score)}
		}
		renderTable(os.Stdout, []string{"uriTag", "title", "type", "payload", "score"}, rows)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 25, "maximum results")
	searchCmd.Flags().BoolVar(&searchMirror, "mirror", false, "walk the mirror even when an index exists")
	rootCmd.AddCommand(searchCmd)
}
