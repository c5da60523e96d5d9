package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"icane/internal/domain"
)

var syncFull bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Index the mirror's metadata payloads for search",
	Long: `Walk the mirror and store a digest of every metadata node in the database.

Only files whose modification time changed are re-read, unless --full is
given or the mirror root or index schema changed since the last sync.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		f := domain.NewMetadataFlattener(GetConfig().Leaves())
		var stats *domain.SyncStats
		if syncFull || store.NeedsFullRebuild(GetMirror().Root()) {
			stats, err = store.SyncFull(cmd.Context(), GetMirror(), f)
		} else {
			stats, err = store.SyncIncremental(cmd.Context(), GetMirror(), f)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Scanned %d files: %d indexed, %d skipped, %d removed, %d nodes in %s\n",
			stats.FilesScanned, stats.FilesIndexed, stats.FilesSkipped, stats.FilesDeleted,
			stats.NodesAdded, stats.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncFull, "full", false, "rebuild the whole index")
	rootCmd.AddCommand(syncCmd)
}
