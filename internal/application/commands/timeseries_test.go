package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icane/internal/domain"
	"icane/internal/errors"
)

func TestTimeSeriesListCommandPath(t *testing.T) {
	active := false
	tests := []struct {
		name    string
		cmd     TimeSeriesListCommand
		want    string
		wantErr bool
	}{
		{
			name: "category only",
			cmd:  TimeSeriesListCommand{Category: "regional-data"},
			want: "regional-data/time-series-list",
		},
		{
			name: "narrowed with filters",
			cmd: TimeSeriesListCommand{
				Category: "regional-data", Section: "society", Subsection: "population",
				Query: domain.QueryParams{NodeType: "time-series", Inactive: &active},
			},
			want: "regional-data/society/population/time-series-list?nodeType=time-series&inactive=false",
		},
		{
			name:    "missing category",
			cmd:     TimeSeriesListCommand{Section: "society"},
			wantErr: true,
		},
		{
			name:    "subsection without section",
			cmd:     TimeSeriesListCommand{Category: "c", Subsection: "population"},
			wantErr: true,
		},
		{
			name:    "data set without subsection",
			cmd:     TimeSeriesListCommand{Category: "c", Section: "s", DataSet: "d"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeSeriesListCommandExecute(t *testing.T) {
	src := fakeSource{
		"regional-data/time-series-list": `[{"uriTag": "a"}, {"uriTag": "b"}, {"uriTag": "c"}]`,
	}
	nodes, err := NewTimeSeriesListCommand(src, "regional-data").Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
}

func TestParentsCommand(t *testing.T) {
	src := fakeSource{
		"time-series/census/parents": `[{"uriTag": "society"}, {"uriTag": "population"}]`,
	}
	ctx := context.Background()

	nodes, err := NewParentsCommand(src, "census").Execute(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	tag, err := nodes[1].Text("uriTag")
	require.NoError(t, err)
	assert.Equal(t, "population", tag)

	_, err = NewParentsCommand(src, "").Execute(ctx)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestLastUpdatedCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("bare timestamp", func(t *testing.T) {
		src := fakeSource{"data/last-updated": `1388534400000`}
		got, err := NewLastUpdatedCommand(src, "data").Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.EntityData, got.Entity)
		assert.Equal(t, "1388534400000", got.Millis)
		assert.Equal(t, "01/01/2014", got.Date)
	})

	t.Run("wrapped timestamp", func(t *testing.T) {
		src := fakeSource{"metadata/last-updated": `{"lastUpdated": 1262304000000}`}
		got, err := NewLastUpdatedCommand(src, "metadata").Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, "01/01/2010", got.Date)
	})

	t.Run("object without timestamp", func(t *testing.T) {
		src := fakeSource{"data/last-updated": `{"other": 1}`}
		_, err := NewLastUpdatedCommand(src, "data").Execute(ctx)
		assert.True(t, errors.Is(err, errors.ErrUnsupported))
	})

	t.Run("short timestamp", func(t *testing.T) {
		src := fakeSource{"data/last-updated": `12`}
		_, err := NewLastUpdatedCommand(src, "data").Execute(ctx)
		assert.True(t, errors.Is(err, errors.ErrUnsupported))
	})

	t.Run("other entity", func(t *testing.T) {
		_, err := NewLastUpdatedCommand(fakeSource{}, "section").Execute(ctx)
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	})
}
