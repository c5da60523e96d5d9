package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"icane/internal/domain"
	"icane/internal/errors"
	"icane/internal/logger"
	"icane/internal/ports"
)

// runTx implements ports.RunTx
type runTx struct {
	ctx    context.Context
	tx     *sql.Tx
	id     string
	kind   domain.RowKind
	source string
	header []string
	rows   int
	done   bool
}

// Ensure runTx implements RunTx
var _ ports.RunTx = (*runTx)(nil)

func newRunTx(ctx context.Context, tx *sql.Tx, kind domain.RowKind, source string) *runTx {
	return &runTx{
		ctx:    ctx,
		tx:     tx,
		id:     uuid.NewString(),
		kind:   kind,
		source: source,
	}
}

// ID returns the run id
func (t *runTx) ID() string {
	return t.id
}

func (t *runTx) insert() error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO runs (id, kind, source, header, row_count, created_at)
		VALUES (?, ?, ?, '[]', 0, ?)
	`, t.id, string(t.kind), t.source, time.Now().UnixNano())
	return errors.Wrap(err, "failed to record run")
}

// WriteHeader records the column names of the run
func (t *runTx) WriteHeader(header []string) error {
	if t.done {
		return errors.New("run already finished")
	}
	if t.kind == domain.RowKindMetadata && len(header) != domain.DigestWidth {
		return errors.Newf("metadata header has %d columns, want %d", len(header), domain.DigestWidth)
	}
	encoded, err := json.Marshal(header)
	if err != nil {
		return err
	}
	t.header = header
	_, err = t.tx.ExecContext(t.ctx, `UPDATE runs SET header = ? WHERE id = ?`, string(encoded), t.id)
	return err
}

// WriteRow inserts one flattened row
func (t *runTx) WriteRow(row domain.Row) error {
	if t.done {
		return errors.New("run already finished")
	}
	var err error
	switch t.kind {
	case domain.RowKindMetadata:
		err = t.insertMetadata(row)
	default:
		err = t.insertData(row)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to store row %d", t.rows)
	}
	t.rows++
	return nil
}

func (t *runTx) insertMetadata(row domain.Row) error {
	if len(row) != len(digestColumns) {
		return errors.Newf("digest row has %d fields, want %d", len(row), len(digestColumns))
	}
	args := make([]any, 0, len(row)+2)
	args = append(args, t.id, t.rows)
	for _, cell := range row.Strings() {
		args = append(args, cell)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO metadata_rows (run_id, seq, `+strings.Join(digestColumns, ", ")+`) VALUES (`+placeholders+`)`,
		args...)
	return err
}

func (t *runTx) insertData(row domain.Row) error {
	if len(row) == 0 {
		return errors.New("empty data row")
	}
	cells := row[:len(row)-1].Strings()
	path, err := json.Marshal(cells)
	if err != nil {
		return err
	}
	var value any
	if v := row[len(row)-1]; v != nil {
		value = domain.FormatValue(v)
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO data_rows (run_id, seq, path, value)
		VALUES (?, ?, ?, ?)
	`, t.id, t.rows, string(path), value)
	return err
}

// Close commits the run with its final row count
func (t *runTx) Close() error {
	if t.done {
		return nil
	}
	t.done = true
	if _, err := t.tx.ExecContext(t.ctx, `UPDATE runs SET row_count = ? WHERE id = ?`, t.rows, t.id); err != nil {
		t.tx.Rollback()
		return errors.Wrap(err, "failed to finish run")
	}
	if err := t.tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit run")
	}
	logger.Logger.Infow("Export run stored",
		logger.FieldRunID, t.id,
		logger.FieldKind, string(t.kind),
		logger.FieldCount, t.rows)
	return nil
}

// Abort rolls the run back
func (t *runTx) Abort() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}
