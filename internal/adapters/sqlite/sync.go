package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strings"
	"time"

	"icane/internal/domain"
	"icane/internal/errors"
	"icane/internal/logger"
	"icane/internal/ports"
)

// SyncFull rebuilds the mirror index from scratch
func (s *Store) SyncFull(ctx context.Context, m ports.Mirror, f *domain.MetadataFlattener) (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	files, err := m.Payloads()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Clear existing data
	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM files`); err != nil {
		return nil, err
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.FilesScanned++
		if err := s.indexFile(ctx, tx, m, f, file, stats); err != nil {
			return stats, err
		}
	}

	if err := finishSync(ctx, tx, m.Root()); err != nil {
		return stats, err
	}
	if err := tx.Commit(); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	logSync("full", stats)
	return stats, nil
}

// SyncIncremental re-indexes only files whose mtime changed since they
// were indexed, and drops files that no longer exist
func (s *Store) SyncIncremental(ctx context.Context, m ports.Mirror, f *domain.MetadataFlattener) (*domain.SyncStats, error) {
	if s.NeedsFullRebuild(m.Root()) {
		return s.SyncFull(ctx, m, f)
	}

	start := time.Now()
	stats := &domain.SyncStats{}

	files, err := m.Payloads()
	if err != nil {
		return nil, err
	}

	// Track existing files to detect deletions and changes
	existing := make(map[string]int64)
	rows, err := s.db.QueryContext(ctx, `SELECT file, mtime FROM files`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			file  string
			mtime int64
		)
		if err := rows.Scan(&file, &mtime); err != nil {
			rows.Close()
			return nil, err
		}
		existing[file] = mtime
	}
	rows.Close()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	seen := make(map[string]bool, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		seen[file] = true
		stats.FilesScanned++

		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if mtime, ok := existing[file]; ok && mtime == info.ModTime().UnixNano() {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE file = ?`, file); err != nil {
			return stats, err
		}
		if err := s.indexFile(ctx, tx, m, f, file, stats); err != nil {
			return stats, err
		}
	}

	// Delete files that no longer exist
	for file := range existing {
		if seen[file] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE file = ?`, file); err != nil {
			return stats, err
		}
		stats.FilesDeleted++
	}

	if err := finishSync(ctx, tx, m.Root()); err != nil {
		return stats, err
	}
	if err := tx.Commit(); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	logSync("incremental", stats)
	return stats, nil
}

// indexFile records a payload file and, when it holds metadata, one
// digest per node. Unreadable or non-metadata payloads are recorded with
// no nodes so they are not re-read until they change.
func (s *Store) indexFile(ctx context.Context, tx *sql.Tx, m ports.Mirror, f *domain.MetadataFlattener, file string, stats *domain.SyncStats) error {
	info, err := os.Stat(file)
	if err != nil {
		stats.FilesSkipped++
		return nil
	}
	apiPath, err := m.APIPath(file)
	if err != nil {
		stats.FilesSkipped++
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO files (file, api_path, mtime) VALUES (?, ?, ?)`,
		file, apiPath, info.ModTime().UnixNano()); err != nil {
		return err
	}

	nodes, err := digestNodes(m, f, file)
	if err != nil {
		logger.Logger.Debugw("Skipping payload in index",
			logger.FieldFile, file,
			logger.FieldError, err)
		stats.FilesSkipped++
		return nil
	}

	for i, n := range nodes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO nodes (file, seq, uri_tag, node_type, title, digest)
			VALUES (?, ?, ?, ?, ?, ?)
		`, file, i, n.uriTag, n.nodeType, n.title, n.digest); err != nil {
			return err
		}
		stats.NodesAdded++
	}
	stats.FilesIndexed++
	return nil
}

type indexedNode struct {
	uriTag   string
	nodeType string
	title    string
	digest   string
}

// digestNodes flattens one metadata payload. Descent stops at leaves.
func digestNodes(m ports.Mirror, f *domain.MetadataFlattener, file string) ([]indexedNode, error) {
	v, err := m.Load(file)
	if err != nil {
		return nil, err
	}
	if !domain.IsMetadata(v) {
		return nil, errors.Wrap(errors.ErrUnsupported, "not a metadata payload")
	}
	root, err := domain.BuildTree(v, f.Leaves())
	if err != nil {
		return nil, err
	}

	var (
		nodes   []indexedNode
		walkErr error
	)
	root.Walk(func(n *domain.TreeNode) bool {
		if n.Source == nil {
			return true
		}
		row, err := domain.ProjectDigest(n.Source)
		if err != nil {
			walkErr = err
			return false
		}
		digest, err := json.Marshal(row.Strings())
		if err != nil {
			walkErr = err
			return false
		}
		nodes = append(nodes, indexedNode{
			uriTag:   n.ID,
			nodeType: n.Type,
			title:    n.Name,
			digest:   string(digest),
		})
		return true
	})
	return nodes, walkErr
}

func finishSync(ctx context.Context, tx *sql.Tx, mirrorRoot string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO meta (key, value) VALUES ('mirror_path_hash', ?);
	`, hashPath(mirrorRoot))
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`,
		time.Now().Unix())
	return err
}

func logSync(mode string, stats *domain.SyncStats) {
	logger.Logger.Infow("Mirror index synced",
		"mode", mode,
		"files_scanned", stats.FilesScanned,
		"files_indexed", stats.FilesIndexed,
		"files_skipped", stats.FilesSkipped,
		"files_deleted", stats.FilesDeleted,
		"nodes_added", stats.NodesAdded,
		logger.FieldDurationMS, stats.Duration.Milliseconds())
}

// Search returns indexed nodes whose title, uriTag or nodeType contain
// query, one result per uriTag
func (s *Store) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.uri_tag, n.node_type, n.title, f.api_path
		FROM nodes n JOIN files f ON f.file = n.file
		WHERE lower(n.title) LIKE ? ESCAPE '\'
		   OR lower(n.uri_tag) LIKE ? ESCAPE '\'
		   OR lower(n.node_type) LIKE ? ESCAPE '\'
		ORDER BY f.file, n.seq
	`, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lower := strings.ToLower(query)
	seen := make(map[string]bool)
	var results []domain.SearchResult
	for rows.Next() {
		var r domain.SearchResult
		if err := rows.Scan(&r.ID, &r.Type, &r.Name, &r.Path); err != nil {
			return nil, err
		}
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		for _, text := range []string{r.Name, r.ID, r.Type} {
			if strings.Contains(strings.ToLower(text), lower) {
				r.MatchedText = text
				break
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Digest returns the stored digest row of an indexed node
func (s *Store) Digest(ctx context.Context, uriTag string) (domain.Row, error) {
	var digest string
	err := s.db.QueryRowContext(ctx, `
		SELECT digest FROM nodes WHERE uri_tag = ? ORDER BY file, seq LIMIT 1
	`, uriTag).Scan(&digest)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("indexed node %s", uriTag)
	}
	if err != nil {
		return nil, err
	}
	var cells []string
	if err := json.Unmarshal([]byte(digest), &cells); err != nil {
		return nil, errors.Wrapf(err, "corrupt digest for %s", uriTag)
	}
	row := make(domain.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
