package commands

import (
	"context"

	"icane/internal/errors"
	"icane/internal/logger"
	"icane/internal/ports"
)

// ExportCommand streams a flattened table into a row sink
type ExportCommand struct {
	Table *Table
	Sink  ports.RowSink
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(table *Table, sink ports.RowSink) *ExportCommand {
	return &ExportCommand{Table: table, Sink: sink}
}

// Execute writes the header and every row, then closes the sink. If any
// step fails the sink is aborted and the error returned. The count of rows
// written is returned either way.
func (c *ExportCommand) Execute(ctx context.Context) (n int, err error) {
	if c.Table == nil || c.Sink == nil {
		return 0, errors.New("export needs a table and a sink")
	}
	log := logger.Named("export")

	defer func() {
		if err == nil {
			return
		}
		if abortErr := c.Sink.Abort(); abortErr != nil {
			log.Warnw("Failed to abort export",
				logger.FieldPath, c.Table.Source,
				logger.FieldError, abortErr.Error())
		}
	}()

	if err := c.Sink.WriteHeader(c.Table.Header); err != nil {
		return 0, errors.Wrap(err, "write header")
	}
	for row, rowErr := range c.Table.Rows {
		if rowErr != nil {
			return n, errors.Wrapf(rowErr, "flatten %s", c.Table.Source)
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := c.Sink.WriteRow(row); err != nil {
			return n, errors.Wrapf(err, "write row %d", n+1)
		}
		n++
	}
	if err := c.Sink.Close(); err != nil {
		return n, errors.Wrap(err, "close sink")
	}

	log.Debugw("Export finished",
		logger.FieldPath, c.Table.Source,
		logger.FieldKind, string(c.Table.Kind),
		logger.FieldCount, n)
	return n, nil
}
