package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"icane/internal/adapters/csvsink"
	"icane/internal/application/commands"
	"icane/internal/config"
	"icane/internal/domain"
	"icane/internal/errors"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// tableDoc is the JSON and YAML shape of a flattened table.
type tableDoc struct {
	Kind   domain.RowKind `json:"kind" yaml:"kind"`
	Source string         `json:"source" yaml:"source"`
	Header []string       `json:"header" yaml:"header"`
	Rows   [][]any        `json:"rows" yaml:"rows"`
}

// printTable writes a flattened table in the configured format. Rows are
// streamed for CSV and collected for every other format.
func printTable(ctx context.Context, w io.Writer, t *commands.Table) (int, error) {
	format := GetConfig().Output.Format
	if format == config.FormatCSV {
		sink, err := csvsink.New(w, GetConfig().Output.Delimiter)
		if err != nil {
			return 0, err
		}
		return commands.NewExportCommand(t, sink).Execute(ctx)
	}

	rows, err := t.Collect()
	if err != nil {
		return len(rows), err
	}
	switch format {
	case config.FormatJSON, config.FormatYAML:
		doc := tableDoc{Kind: t.Kind, Source: t.Source, Header: t.Header, Rows: make([][]any, len(rows))}
		for i, r := range rows {
			doc.Rows[i] = yamlCells(r, format)
		}
		return len(rows), encode(w, format, doc)
	default:
		cells := make([][]string, len(rows))
		for i, r := range rows {
			cells[i] = r.Strings()
		}
		renderTable(w, t.Header, cells)
		return len(rows), nil
	}
}

// yamlCells unwraps json.Number cells for YAML so numbers stay unquoted.
func yamlCells(r domain.Row, format string) []any {
	out := make([]any, len(r))
	for i, v := range r {
		n, ok := v.(json.Number)
		if !ok || format != config.FormatYAML {
			out[i] = v
			continue
		}
		if x, err := n.Int64(); err == nil {
			out[i] = x
		} else if f, err := n.Float64(); err == nil {
			out[i] = f
		} else {
			out[i] = n.String()
		}
	}
	return out
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

// printNodes writes a list of entities. The table format shows the
// identifying fields, the others the whole payload.
func printNodes(w io.Writer, nodes []*domain.Node) error {
	format := GetConfig().Output.Format
	switch format {
	case config.FormatJSON, config.FormatYAML:
		return encode(w, format, nodes)
	case config.FormatCSV:
		sink, err := csvsink.New(w, GetConfig().Output.Delimiter)
		if err != nil {
			return err
		}
		if err := sink.WriteHeader(nodeColumns); err != nil {
			return err
		}
		for _, n := range nodes {
			if err := sink.WriteRow(nodeRow(n)); err != nil {
				return err
			}
		}
		return sink.Close()
	default:
		rows := make([][]string, len(nodes))
		for i, n := range nodes {
			rows[i] = nodeRow(n).Strings()
		}
		renderTable(w, nodeColumns, rows)
		return nil
	}
}

var nodeColumns = []string{"uriTag", "title", "nodeType"}

func nodeRow(n *domain.Node) domain.Row {
	row := domain.Row{n.Path(), nil, nil}
	if v, ok := n.Lookup("uriTag"); ok {
		row[0] = v
	} else if v, ok := n.Lookup("name"); ok {
		row[0] = v
	}
	if v, ok := n.Lookup("title"); ok {
		row[1] = v
	} else if v, ok := n.Lookup("description"); ok {
		row[1] = v
	}
	if nt, ok, _ := n.OptionalNode("nodeType"); ok {
		row[2], _ = nt.Lookup("uriTag")
	}
	return row
}

// printNode writes one entity. Tables have no natural shape for a single
// payload, so the table format falls back to indented JSON.
func printNode(w io.Writer, n *domain.Node) error {
	format := GetConfig().Output.Format
	if format == config.FormatYAML {
		return encode(w, format, n)
	}
	return encode(w, config.FormatJSON, n)
}

func encode(w io.Writer, format string, v any) error {
	if format == config.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "failed to encode YAML")
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "failed to encode JSON")
}

// openOutput returns stdout for "" or "-", otherwise a created file.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", path)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
