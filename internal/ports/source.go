package ports

import (
	"context"

	"icane/internal/domain"
)

// PayloadSource resolves an API path such as "section/economy" or
// "regional-data/economy/time-series-list?nodeType=time-series" to its
// decoded JSON payload.
type PayloadSource interface {
	Fetch(ctx context.Context, path string) (any, error)
}

// Searcher finds metadata nodes whose title, uriTag or nodeType contain query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// Mirror is a PayloadSource whose payloads live on disk.
type Mirror interface {
	PayloadSource
	Searcher

	// Root is the mirror directory.
	Root() string
	// FilePath is the file a payload path maps to.
	FilePath(path string) string
	// APIPath is the payload path a mirror file stands for.
	APIPath(file string) (string, error)
	// Payloads lists every payload file, sorted.
	Payloads() ([]string, error)
	// Load decodes one payload file.
	Load(file string) (any, error)
}
