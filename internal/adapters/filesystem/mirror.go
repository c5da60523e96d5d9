package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"icane/internal/config"
	"icane/internal/domain"
	"icane/internal/errors"
	"icane/internal/logger"
	"icane/internal/ports"
)

// PayloadExt is the extension of every mirrored payload.
const PayloadExt = ".json"

// Mirror implements ports.Mirror over a directory of saved API responses.
// An API path maps to <root>/<path>.json; a query string is folded into the
// file name, so "time-series-list?nodeType=time-series" is stored as
// "time-series-list.nodeType=time-series.json".
type Mirror struct {
	root   string
	leaves domain.LeafSet
}

var _ ports.Mirror = (*Mirror)(nil)

// NewMirror creates a mirror rooted at root. A leading ~ is expanded.
func NewMirror(root string, leaves domain.LeafSet) *Mirror {
	return &Mirror{root: config.ExpandHome(root), leaves: leaves}
}

// Root returns the mirror directory
func (m *Mirror) Root() string {
	return m.root
}

// FilePath returns the file an API path maps to. It does not check that
// the file exists.
func (m *Mirror) FilePath(path string) string {
	name, query, _ := strings.Cut(strings.Trim(path, "/"), "?")
	if query != "" {
		name += "." + strings.ReplaceAll(query, "&", ".")
	}
	return filepath.Join(m.root, filepath.FromSlash(name)+PayloadExt)
}

// APIPath is the inverse of FilePath for files under the root.
func (m *Mirror) APIPath(file string) (string, error) {
	rel, err := filepath.Rel(m.root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errors.Newf("file is outside the mirror: %s", file)
	}
	rel = strings.TrimSuffix(filepath.ToSlash(rel), PayloadExt)

	dir, base := "", rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		dir, base = rel[:i+1], rel[i+1:]
	}
	name, query, found := strings.Cut(base, ".")
	if !found {
		return rel, nil
	}
	return dir + name + "?" + strings.ReplaceAll(query, ".", "&"), nil
}

// Load decodes one payload file.
func (m *Mirror) Load(file string) (any, error) {
	return ReadFile(file)
}

// Fetch reads and decodes the payload for an API path.
func (m *Mirror) Fetch(ctx context.Context, path string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validatePath(path); err != nil {
		return nil, err
	}

	file := m.FilePath(path)
	if _, err := m.APIPath(file); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidRequest, err.Error())
	}
	logger.Logger.Debugw("Reading mirrored payload",
		logger.FieldPath, path,
		logger.FieldFile, file)

	v, err := ReadFile(file)
	if errors.IsNotFoundError(err) {
		return nil, errors.WithHintf(
			errors.NewNotFoundError("no mirrored payload for %s", path),
			"save the API response for %s to %s", path, file,
		)
	}
	return v, err
}

func validatePath(path string) error {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return errors.NewInvalidRequestError("empty payload path")
	}
	name, query, _ := strings.Cut(trimmed, "?")
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return errors.NewInvalidRequestError("invalid payload path %q", path)
		}
	}
	// The query is folded into the file name and must stay one segment.
	if strings.ContainsAny(query, `/\`) {
		return errors.NewInvalidRequestError("invalid query in payload path %q", path)
	}
	return nil
}

// Payloads returns every payload file under the root, sorted.
func (m *Mirror) Payloads() ([]string, error) {
	var files []string
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == m.root {
				return err
			}
			return nil
		}
		if d.IsDir() && path != m.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), PayloadExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(
				errors.NewNotFoundError("mirror directory %s", m.root),
				"set mirror.root in the config file or ICANE_MIRROR",
			)
		}
		return nil, errors.Wrap(err, "failed to walk mirror")
	}
	sort.Strings(files)
	return files, nil
}

// Search walks the mirrored metadata payloads and returns the nodes whose
// title, uriTag or nodeType contain query. Each uriTag is reported once.
func (m *Mirror) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	files, err := m.Payloads()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []domain.SearchResult
	seen := make(map[string]bool)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		v, err := ReadFile(file)
		if err != nil || !domain.IsMetadata(v) {
			continue
		}
		root, err := domain.BuildTree(v, m.leaves)
		if err != nil {
			logger.Logger.Debugw("Skipping payload in search",
				logger.FieldFile, file,
				logger.FieldError, err)
			continue
		}
		apiPath, _ := m.APIPath(file)

		root.Walk(func(n *domain.TreeNode) bool {
			if n.Source == nil || seen[n.ID] {
				return true
			}
			for _, text := range []string{n.Name, n.ID, n.Type} {
				if strings.Contains(strings.ToLower(text), query) {
					seen[n.ID] = true
					results = append(results, domain.SearchResult{
						Type:        n.Type,
						ID:          n.ID,
						Name:        n.Name,
						Path:        apiPath,
						MatchedText: text,
					})
					break
				}
			}
			return true
		})
	}
	return results, nil
}
