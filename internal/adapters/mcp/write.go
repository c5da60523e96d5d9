package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"icane/internal/application/commands"
	"icane/internal/domain"
	"icane/internal/ports"
)

// RegisterWriteTools adds the tools that export into and maintain the
// SQLite store. mirror may be nil, in which case sync is not offered.
func RegisterWriteTools(s *server.MCPServer, src ports.PayloadSource, store ports.RowStore, mirror ports.Mirror, leaves domain.LeafSet) {
	s.AddTool(exportTool(), exportHandler(src, store, leaves))
	s.AddTool(runsTool(), runsHandler(store))
	s.AddTool(deleteRunTool(), deleteRunHandler(store))
	if mirror != nil {
		s.AddTool(syncTool(), syncHandler(store, mirror, leaves))
	}
}

// --- export ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export",
		mcp.WithDescription("Flatten a payload and store the rows as a new export run in the database."),
		mcp.WithString("kind",
			mcp.Description("What the payload holds"),
			mcp.Enum(string(domain.RowKindData), string(domain.RowKindMetadata)),
			mcp.Required(),
		),
		mcp.WithString("path",
			mcp.Description("API path of the payload"),
			mcp.Required(),
		),
	)
}

func exportHandler(src ports.PayloadSource, store ports.RowStore, leaves domain.LeafSet) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		kind, ok := domain.ParseRowKind(req.GetString("kind", ""))
		if !ok {
			return toolError(fmt.Errorf("kind must be data or metadata"))
		}

		var (
			table *commands.Table
			err   error
		)
		switch kind {
		case domain.RowKindData:
			table, err = commands.NewFlattenDataCommand(src, path).Execute(ctx)
		default:
			table, err = commands.NewFlattenMetadataCommand(src, path, leaves).Execute(ctx)
		}
		if err != nil {
			return toolError(err)
		}

		run, err := store.BeginRun(ctx, kind, path)
		if err != nil {
			return toolError(err)
		}
		n, err := commands.NewExportCommand(table, run).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(fmt.Sprintf("Stored %d %s rows from %s as run %s", n, kind, path, run.ID())), nil
	}
}

// --- runs ---

func runsTool() mcp.Tool {
	return mcp.NewTool("runs",
		mcp.WithDescription("List stored export runs, newest first."),
	)
}

func runsHandler(store ports.RowStore) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		runs, err := store.ListRuns(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(runs) == 0 {
			return mcp.NewToolResultText("No runs."), nil
		}
		var sb strings.Builder
		for _, r := range runs {
			fmt.Fprintf(&sb, "%s  %s  %s  %d rows  %s\n",
				r.ID, r.Kind, r.Source, r.Rows, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- delete_run ---

func deleteRunTool() mcp.Tool {
	return mcp.NewTool("delete_run",
		mcp.WithDescription("Delete a stored export run and its rows."),
		mcp.WithString("id",
			mcp.Description("Run id as listed by the runs tool"),
			mcp.Required(),
		),
	)
}

func deleteRunHandler(store ports.RowStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}
		if err := store.DeleteRun(ctx, id); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("Deleted run " + id), nil
	}
}

// --- sync ---

func syncTool() mcp.Tool {
	return mcp.NewTool("sync",
		mcp.WithDescription("Re-index the metadata payloads of the local mirror for search."),
		mcp.WithBoolean("full",
			mcp.Description("Rebuild the whole index instead of only changed files"),
		),
	)
}

func syncHandler(store ports.RowStore, mirror ports.Mirror, leaves domain.LeafSet) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f := domain.NewMetadataFlattener(leaves)

		var (
			stats *domain.SyncStats
			err   error
		)
		if req.GetBool("full", false) || store.NeedsFullRebuild(mirror.Root()) {
			stats, err = store.SyncFull(ctx, mirror, f)
		} else {
			stats, err = store.SyncIncremental(ctx, mirror, f)
		}
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(fmt.Sprintf(
			"Scanned %d files: %d indexed, %d skipped, %d removed, %d nodes in %s",
			stats.FilesScanned, stats.FilesIndexed, stats.FilesSkipped, stats.FilesDeleted,
			stats.NodesAdded, stats.Duration.Round(time.Millisecond))), nil
	}
}
