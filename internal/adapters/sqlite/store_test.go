package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icane/internal/domain"
	"icane/internal/errors"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.Open(filepath.Join(t.TempDir(), "icane.db")))
	t.Cleanup(func() { s.Close() })
	return s
}

func digestRow(uriTag string) domain.Row {
	row := make(domain.Row, domain.DigestWidth)
	for i, c := range domain.DigestColumns {
		row[i] = c + "-" + uriTag
	}
	return row
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "metadata_uri", snakeCase("metadataUri"))
	assert.Equal(t, "initial_period_description", snakeCase("initialPeriodDescription"))
	assert.Equal(t, "id", snakeCase("id"))
	assert.Len(t, digestColumns, domain.DigestWidth)
}

func TestMetadataRun(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, domain.RowKindMetadata, "section/society")
	require.NoError(t, err)
	require.NoError(t, run.WriteHeader(domain.DigestColumns))
	require.NoError(t, run.WriteRow(digestRow("a")))
	require.NoError(t, run.WriteRow(digestRow("b")))
	require.NoError(t, run.Close())

	got, rows, err := s.RunRows(ctx, run.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.RowKindMetadata, got.Kind)
	assert.Equal(t, "section/society", got.Source)
	assert.Equal(t, domain.DigestColumns, got.Header)
	assert.Equal(t, 2, got.Rows)
	require.Len(t, rows, 2)
	assert.Equal(t, digestRow("a").Strings(), rows[0].Strings())
	assert.Equal(t, digestRow("b").Strings(), rows[1].Strings())
}

func TestMetadataRunRejectsBadWidth(t *testing.T) {
	s := openStore(t)
	run, err := s.BeginRun(context.Background(), domain.RowKindMetadata, "x")
	require.NoError(t, err)
	defer run.Abort()

	assert.Error(t, run.WriteHeader([]string{"only"}))
	assert.Error(t, run.WriteRow(domain.Row{"short"}))
}

func TestDataRun(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, domain.RowKindData, "data.json")
	require.NoError(t, err)
	require.NoError(t, run.WriteHeader([]string{"Sex", "Year", "Value"}))
	require.NoError(t, run.WriteRow(domain.Row{"Men", "2001", "10.5"}))
	require.NoError(t, run.WriteRow(domain.Row{"Women", "2001", nil}))
	require.NoError(t, run.Close())

	_, rows, err := s.RunRows(ctx, run.ID())
	require.NoError(t, err)
	assert.Equal(t, []domain.Row{
		{"Men", "2001", "10.5"},
		{"Women", "2001", nil},
	}, rows)
}

func TestAbortedRunLeavesNothing(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, domain.RowKindData, "x")
	require.NoError(t, err)
	require.NoError(t, run.WriteRow(domain.Row{"a", "1"}))
	require.NoError(t, run.Abort())
	assert.Error(t, run.WriteRow(domain.Row{"b", "2"}))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, _, err = s.RunRows(ctx, run.ID())
	assert.True(t, errors.IsNotFoundError(err))
}

func TestListAndDeleteRuns(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	var ids []string
	for _, src := range []string{"first", "second"} {
		run, err := s.BeginRun(ctx, domain.RowKindData, src)
		require.NoError(t, err)
		require.NoError(t, run.Close())
		ids = append(ids, run.ID())
		time.Sleep(time.Millisecond)
	}

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[0].Source, "newest first")

	require.NoError(t, s.DeleteRun(ctx, ids[1]))
	assert.True(t, errors.IsNotFoundError(s.DeleteRun(ctx, ids[1])))

	runs, err = s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, ids[0], runs[0].ID)
}

func TestBeginRunUnknownKind(t *testing.T) {
	s := openStore(t)
	_, err := s.BeginRun(context.Background(), "sheet", "x")
	assert.ErrorIs(t, err, errors.ErrUnsupported)
}

func TestInMemoryStore(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Open(":memory:"))
	defer s.Close()

	run, err := s.BeginRun(context.Background(), domain.RowKindData, "x")
	require.NoError(t, err)
	require.NoError(t, run.Close())

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
