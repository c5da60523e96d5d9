package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"icane/internal/config"
	"icane/internal/domain"
	"icane/internal/errors"
	"icane/internal/ports"
)

const schemaVersion = "1"

// Store implements ports.RowStore using SQLite
type Store struct {
	db *sql.DB
}

// Ensure Store implements RowStore
var _ ports.RowStore = (*Store)(nil)

// NewStore creates a new SQLite store
func NewStore() *Store {
	return &Store{}
}

// digestColumns are the SQL column names of metadata_rows, in digest order.
var digestColumns = func() []string {
	cols := make([]string, len(domain.DigestColumns))
	for i, c := range domain.DigestColumns {
		cols[i] = snakeCase(c)
	}
	return cols
}()

// snakeCase turns a digest column name such as "metadataUri" into "metadata_uri".
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func schema() string {
	var digest strings.Builder
	for _, c := range digestColumns {
		fmt.Fprintf(&digest, "\t\t\t%s TEXT,\n", c)
	}

	return `
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			source TEXT NOT NULL,
			header TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata_rows (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
` + digest.String() + `			PRIMARY KEY (run_id, seq)
		);
		CREATE TABLE IF NOT EXISTS data_rows (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			path TEXT NOT NULL,
			value TEXT,
			PRIMARY KEY (run_id, seq)
		);
		CREATE TABLE IF NOT EXISTS files (
			file TEXT PRIMARY KEY,
			api_path TEXT NOT NULL,
			mtime INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS nodes (
			file TEXT NOT NULL REFERENCES files(file) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			uri_tag TEXT NOT NULL,
			node_type TEXT NOT NULL,
			title TEXT NOT NULL,
			digest TEXT NOT NULL,
			PRIMARY KEY (file, seq)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_nodes_uri_tag ON nodes(uri_tag);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
}

// Open initializes the store at dbPath. ":memory:" opens a private
// in-memory database.
func (s *Store) Open(dbPath string) error {
	dsn := dbPath
	if dbPath != ":memory:" {
		dbPath = config.ExpandHome(dbPath)
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return errors.Wrap(err, "failed to create database directory")
		}
		// WAL mode for better concurrency
		dsn = "file:" + dbPath + "?_journal_mode=WAL&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	if dbPath == ":memory:" {
		// Every connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	s.db = db

	if _, err := db.Exec(schema()); err != nil {
		db.Close()
		return errors.Wrap(err, "failed to setup database")
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return errors.Wrap(err, "failed to update metadata")
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NeedsFullRebuild returns true if the mirror index should be fully rebuilt
func (s *Store) NeedsFullRebuild(mirrorRoot string) bool {
	var version, mirrorHash string

	s.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	s.db.QueryRow("SELECT value FROM meta WHERE key = 'mirror_path_hash'").Scan(&mirrorHash)

	return version != schemaVersion || mirrorHash != hashPath(mirrorRoot)
}

// hashPath returns a short hash of the mirror path
func hashPath(path string) string {
	h := sha256.Sum256([]byte(path))
	return hex.EncodeToString(h[:8])
}

// BeginRun starts an export run. Its rows become visible on Close.
func (s *Store) BeginRun(ctx context.Context, kind domain.RowKind, source string) (ports.RunTx, error) {
	if _, ok := domain.ParseRowKind(string(kind)); !ok {
		return nil, errors.Wrapf(errors.ErrUnsupported, "row kind %q", kind)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin run")
	}
	run := newRunTx(ctx, tx, kind, source)
	if err := run.insert(); err != nil {
		tx.Rollback()
		return nil, err
	}
	return run, nil
}

// ListRuns returns every run, newest first
func (s *Store) ListRuns(ctx context.Context) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, source, header, row_count, created_at
		FROM runs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*domain.Run, error) {
	var (
		run     domain.Run
		kind    string
		header  string
		created int64
	)
	if err := sc.Scan(&run.ID, &kind, &run.Source, &header, &run.Rows, &created); err != nil {
		return nil, err
	}
	run.Kind = domain.RowKind(kind)
	run.CreatedAt = time.Unix(0, created).UTC()
	if err := json.Unmarshal([]byte(header), &run.Header); err != nil {
		return nil, errors.Wrapf(err, "corrupt header for run %s", run.ID)
	}
	return &run, nil
}

// RunRows returns a run and its rows in export order
func (s *Store) RunRows(ctx context.Context, runID string) (*domain.Run, []domain.Row, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, kind, source, header, row_count, created_at
		FROM runs WHERE id = ?
	`, runID))
	if err == sql.ErrNoRows {
		return nil, nil, errors.NewNotFoundError("run %s", runID)
	}
	if err != nil {
		return nil, nil, err
	}

	var out []domain.Row
	switch run.Kind {
	case domain.RowKindMetadata:
		out, err = s.metadataRows(ctx, runID)
	case domain.RowKindData:
		out, err = s.dataRows(ctx, runID)
	default:
		err = errors.Wrapf(errors.ErrUnsupported, "row kind %q", run.Kind)
	}
	if err != nil {
		return nil, nil, err
	}
	return run, out, nil
}

func (s *Store) metadataRows(ctx context.Context, runID string) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+strings.Join(digestColumns, ", ")+` FROM metadata_rows WHERE run_id = ? ORDER BY seq`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		cells := make([]sql.NullString, len(digestColumns))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(domain.Row, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) dataRows(ctx context.Context, runID string) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, value FROM data_rows WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var (
			path  string
			value sql.NullString
		)
		if err := rows.Scan(&path, &value); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(path), &cells); err != nil {
			return nil, errors.Wrapf(err, "corrupt path in run %s", runID)
		}
		row := make(domain.Row, 0, len(cells)+1)
		for _, c := range cells {
			row = append(row, c)
		}
		if value.Valid {
			row = append(row, value.String)
		} else {
			row = append(row, nil)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its rows
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("run %s", runID)
	}
	return nil
}
