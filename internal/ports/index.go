package ports

import (
	"context"

	"icane/internal/domain"
)

// RowSink receives flattened rows. WriteHeader is called once before
// any WriteRow. Close finishes the export; Abort discards it where the
// sink can.
type RowSink interface {
	WriteHeader(header []string) error
	WriteRow(row domain.Row) error
	Close() error
	Abort() error
}

// RowStore persists export runs and indexes the mirror.
type RowStore interface {
	Searcher

	// Lifecycle
	Open(dbPath string) error
	Close() error

	// Export runs
	BeginRun(ctx context.Context, kind domain.RowKind, source string) (RunTx, error)
	ListRuns(ctx context.Context) ([]domain.Run, error)
	RunRows(ctx context.Context, runID string) (*domain.Run, []domain.Row, error)
	DeleteRun(ctx context.Context, runID string) error

	// Mirror index
	NeedsFullRebuild(mirrorRoot string) bool
	SyncFull(ctx context.Context, m Mirror, f *domain.MetadataFlattener) (*domain.SyncStats, error)
	SyncIncremental(ctx context.Context, m Mirror, f *domain.MetadataFlattener) (*domain.SyncStats, error)
}

// RunTx is an export run in progress. Rows become visible on Close.
type RunTx interface {
	RowSink
	ID() string
}
