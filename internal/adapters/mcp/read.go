package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"icane/internal/adapters/csvsink"
	"icane/internal/application/commands"
	"icane/internal/domain"
	"icane/internal/ports"
)

// DefaultRowLimit caps the rows a flatten tool returns unless the caller
// asks for more.
const DefaultRowLimit = 200

// RegisterReadTools adds the tools that read payloads from src.
func RegisterReadTools(s *server.MCPServer, src ports.PayloadSource, searcher ports.Searcher, leaves domain.LeafSet) {
	s.AddTool(getTool(), getHandler(src))
	s.AddTool(listTool(), listHandler(src))
	s.AddTool(timeSeriesTool(), timeSeriesHandler(src))
	s.AddTool(parentsTool(), parentsHandler(src))
	s.AddTool(lastUpdatedTool(), lastUpdatedHandler(src))
	s.AddTool(treeTool(), treeHandler(src, leaves))
	s.AddTool(flattenDataTool(), flattenDataHandler(src))
	s.AddTool(flattenMetadataTool(), flattenMetadataHandler(src, leaves))
	s.AddTool(columnsTool(), columnsHandler())
	if searcher != nil {
		s.AddTool(searchTool(), searchHandler(searcher))
	}
}

// --- get ---

func getTool() mcp.Tool {
	return mcp.NewTool("get",
		mcp.WithDescription("Fetch one entity as JSON, either by entity kind and uriTag or by raw API path."),
		mcp.WithString("entity",
			mcp.Description("Entity kind, e.g. section, subsection, time-series, measure"),
		),
		mcp.WithString("uri_tag",
			mcp.Description("uriTag of the entity, e.g. economy"),
		),
		mcp.WithString("path",
			mcp.Description("Raw API path, e.g. time-series/population-census/parent. Overrides entity and uri_tag."),
		),
	)
}

func getHandler(src ports.PayloadSource) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewGetEntityCommand(src, req.GetString("entity", ""), req.GetString("uri_tag", ""))
		cmd.Path = req.GetString("path", "")

		n, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(n)
	}
}

// --- list ---

func listTool() mcp.Tool {
	return mcp.NewTool("list",
		mcp.WithDescription("List every entity of a kind (sections, measures, periodicities...). Classes are listed per language."),
		mcp.WithString("entity",
			mcp.Description("Entity kind, singular or plural"),
			mcp.Required(),
		),
		mcp.WithString("language",
			mcp.Description("Language of class descriptions (default es)"),
		),
	)
}

func listHandler(src ports.PayloadSource) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewListEntitiesCommand(src, req.GetString("entity", ""))
		cmd.Language = req.GetString("language", "")

		nodes, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatNodes(nodes)
	}
}

// --- time_series ---

func timeSeriesTool() mcp.Tool {
	return mcp.NewTool("time_series",
		mcp.WithDescription("List the nodes of a category, optionally narrowed by section, subsection and data set."),
		mcp.WithString("category",
			mcp.Description("Category uriTag, e.g. regional-data"),
			mcp.Required(),
		),
		mcp.WithString("section", mcp.Description("Section uriTag")),
		mcp.WithString("subsection", mcp.Description("Subsection uriTag (needs section)")),
		mcp.WithString("data_set", mcp.Description("Data set uriTag (needs subsection)")),
		mcp.WithString("node_type", mcp.Description("Only nodes of this node type")),
		mcp.WithBoolean("inactive", mcp.Description("Include inactive nodes")),
	)
}

func timeSeriesHandler(src ports.PayloadSource) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewTimeSeriesListCommand(src, req.GetString("category", ""))
		cmd.Section = req.GetString("section", "")
		cmd.Subsection = req.GetString("subsection", "")
		cmd.DataSet = req.GetString("data_set", "")
		cmd.Query.NodeType = req.GetString("node_type", "")
		if _, ok := req.GetArguments()["inactive"]; ok {
			inactive := req.GetBool("inactive", false)
			cmd.Query.Inactive = &inactive
		}

		nodes, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatNodes(nodes)
	}
}

// --- parents ---

func parentsTool() mcp.Tool {
	return mcp.NewTool("parents",
		mcp.WithDescription("List the ancestors of a node."),
		mcp.WithString("uri_tag",
			mcp.Description("uriTag of the node"),
			mcp.Required(),
		),
	)
}

func parentsHandler(src ports.PayloadSource) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		nodes, err := commands.NewParentsCommand(src, req.GetString("uri_tag", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatNodes(nodes)
	}
}

// --- last_updated ---

func lastUpdatedTool() mcp.Tool {
	return mcp.NewTool("last_updated",
		mcp.WithDescription("Report when data or metadata last changed."),
		mcp.WithString("entity",
			mcp.Description("data or metadata"),
			mcp.Enum("data", "metadata"),
			mcp.Required(),
		),
	)
}

func lastUpdatedHandler(src ports.PayloadSource) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		got, err := commands.NewLastUpdatedCommand(src, req.GetString("entity", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s  %s  %s", got.Entity, got.Date, got.Millis)), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display a metadata payload as a tree of uriTags and titles."),
		mcp.WithString("path",
			mcp.Description("API path of a metadata payload, e.g. section/society"),
			mcp.Required(),
		),
	)
}

func treeHandler(src ports.PayloadSource, leaves domain.LeafSet) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root, err := commands.NewBuildTreeCommand(src, req.GetString("path", ""), leaves).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		var sb strings.Builder
		renderTree(&sb, root, "")
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, node *domain.TreeNode, prefix string) {
	if node.Source != nil {
		fmt.Fprintf(sb, "%s%s  %s  [%s]\n", prefix, node.ID, node.Name, node.Type)
		prefix += "  "
	}
	for _, child := range node.Children {
		renderTree(sb, child, prefix)
	}
}

// --- flatten_data ---

func flattenDataTool() mcp.Tool {
	return mcp.NewTool("flatten_data",
		mcp.WithDescription("Flatten a data payload into CSV, one row per observation: dimension keys then the value."),
		mcp.WithString("path",
			mcp.Description("API path of a data payload, e.g. time-series/population-census/data"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum rows to return (default %d, 0 for all)", DefaultRowLimit)),
		),
	)
}

func flattenDataHandler(src ports.PayloadSource) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		table, err := commands.NewFlattenDataCommand(src, req.GetString("path", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return csvResult(table, req.GetInt("limit", DefaultRowLimit))
	}
}

// --- flatten_metadata ---

func flattenMetadataTool() mcp.Tool {
	return mcp.NewTool("flatten_metadata",
		mcp.WithDescription("Flatten a metadata hierarchy into CSV digest rows, one per node in pre-order."),
		mcp.WithString("path",
			mcp.Description("API path of a metadata payload, e.g. section/society"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum rows to return (default %d, 0 for all)", DefaultRowLimit)),
		),
	)
}

func flattenMetadataHandler(src ports.PayloadSource, leaves domain.LeafSet) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		table, err := commands.NewFlattenMetadataCommand(src, req.GetString("path", ""), leaves).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return csvResult(table, req.GetInt("limit", DefaultRowLimit))
	}
}

// --- columns ---

func columnsTool() mcp.Tool {
	return mcp.NewTool("columns",
		mcp.WithDescription("List the digest columns of flattened metadata, in order."),
	)
}

func columnsHandler() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(strings.Join(domain.DigestColumns, "\n")), nil
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search indexed metadata nodes by title, uriTag or node type."),
		mcp.WithString("query",
			mcp.Description("Search query (at least two characters)"),
			mcp.Required(),
		),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 50)")),
	)
}

func searchHandler(searcher ports.Searcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		cmd := commands.NewSearchCommand(searcher, query)
		cmd.Limit = req.GetInt("limit", 50)
		results, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%s  %s  [%s]  %s\n", r.ID, r.Name, r.Type, r.Path)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

func formatNodes(nodes []*domain.Node) (*mcp.CallToolResult, error) {
	if len(nodes) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(formatNode(n))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatNode prints the identifying fields a node has, falling back to JSON.
func formatNode(n *domain.Node) string {
	var parts []string
	for _, key := range []string{"uriTag", "name", "title"} {
		if v, ok := n.Lookup(key); ok && v != nil {
			parts = append(parts, domain.FormatValue(v))
		}
	}
	if len(parts) == 0 {
		return domain.FormatValue(n)
	}
	return strings.Join(parts, "  ")
}

// csvResult renders up to limit rows of a table as CSV. A limit of zero
// or less renders every row.
func csvResult(table *commands.Table, limit int) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	sink, err := csvsink.New(&sb, ",")
	if err != nil {
		return toolError(err)
	}
	if err := sink.WriteHeader(table.Header); err != nil {
		return toolError(err)
	}

	n, truncated := 0, false
	for row, err := range table.Rows {
		if err != nil {
			return toolError(err)
		}
		if limit > 0 && n == limit {
			truncated = true
			break
		}
		if err := sink.WriteRow(row); err != nil {
			return toolError(err)
		}
		n++
	}
	if err := sink.Close(); err != nil {
		return toolError(err)
	}
	if truncated {
		fmt.Fprintf(&sb, "# truncated after %d rows\n", limit)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
