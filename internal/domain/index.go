package domain

import "time"

// RowKind tells which flattener produced a set of rows.
type RowKind string

const (
	RowKindMetadata RowKind = "metadata"
	RowKindData     RowKind = "data"
)

// ParseRowKind accepts "metadata" or "data".
func ParseRowKind(s string) (RowKind, bool) {
	switch RowKind(s) {
	case RowKindMetadata, RowKindData:
		return RowKind(s), true
	}
	return "", false
}

// Run describes one export of flattened rows into a store.
type Run struct {
	ID        string
	Kind      RowKind
	Source    string // payload path or file the rows came from
	Header    []string
	Rows      int
	CreatedAt time.Time
}

// SearchResult is a metadata node matched by a search.
type SearchResult struct {
	Type        string // nodeType uriTag
	ID          string // uriTag
	Name        string // title
	Path        string // mirror payload the node was found in
	MatchedText string
}

// SyncStats holds statistics from a mirror index sync.
type SyncStats struct {
	FilesScanned int
	FilesIndexed int
	FilesSkipped int
	FilesDeleted int
	NodesAdded   int
	Duration     time.Duration
}
