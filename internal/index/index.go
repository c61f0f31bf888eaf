// Package index is a content index over a local directory tree. It answers
// cross-collection searches and applies batch replacements.
package index

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"editgrep/internal/config"
	"editgrep/internal/domain"
	"editgrep/internal/eventbus"
	"editgrep/internal/query"
)

var (
	// ErrRootNotFound is returned when the index root is missing or not a directory
	ErrRootNotFound = errors.New("root directory not found")
	// ErrInvalidQuery is returned when a pattern query does not compile
	ErrInvalidQuery = errors.New("invalid query")
)

// FS indexes the files under one root directory
type FS struct {
	root     string
	settings config.IndexSettings
	bus      eventbus.EventBus

	mu    sync.RWMutex
	files []string // cached by Refresh
}

// New creates an index over root
func New(root string, settings config.IndexSettings, bus eventbus.EventBus) *FS {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	d := config.DefaultConfig().Index
	if settings.MaxLinesPerFile <= 0 {
		settings.MaxLinesPerFile = d.MaxLinesPerFile
	}
	if settings.MaxResults <= 0 {
		settings.MaxResults = d.MaxResults
	}
	if settings.Workers <= 0 {
		settings.Workers = d.Workers
	}
	return &FS{root: root, settings: settings, bus: bus}
}

// Root returns the indexed directory
func (ix *FS) Root() string { return ix.root }

func compile(req domain.SearchRequest) (*query.Compiled, error) {
	q := query.Compile(req.Query, req.Options())
	if q.Kind == query.KindInvalid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, q.Err)
	}
	return q, nil
}

// Search returns matching lines of every file passing the request filters,
// in path order. Each file contributes at most MaxLinesPerFile results and
// the whole response at most MaxResults.
func (ix *FS) Search(ctx context.Context, req domain.SearchRequest) ([]domain.GlobalSearchResult, error) {
	q, err := compile(req)
	if err != nil {
		return nil, err
	}
	if q.IsEmpty() {
		return nil, nil
	}

	files, err := ix.collect(ctx, req.Filters(), false)
	if err != nil {
		return nil, err
	}

	perFile := make([][]domain.GlobalSearchResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.settings.Workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perFile[i] = ix.searchFile(q, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []domain.GlobalSearchResult
	for _, rs := range perFile {
		for _, r := range rs {
			if len(results) >= ix.settings.MaxResults {
				return results, nil
			}
			results = append(results, r)
		}
	}
	log.Printf("Index search for %q: %d results in %d files scanned", req.Query, len(results), len(files))
	return results, nil
}

func (ix *FS) searchFile(q *query.Compiled, f file) []domain.GlobalSearchResult {
	data, err := os.ReadFile(f.abs)
	if err != nil {
		log.Printf("Failed to read %s: %v", f.rel, err)
		return nil
	}

	var out []domain.GlobalSearchResult
	for i, line := range strings.Split(string(data), "\n") {
		matches := q.LineMatches(line)
		if len(matches) == 0 {
			continue
		}
		out = append(out, trimmedResult(f.rel, i+1, line, matches))
		if len(out) >= ix.settings.MaxLinesPerFile {
			break
		}
	}
	return out
}

// trimmedResult strips surrounding whitespace from line and shifts matches
// so they stay aligned with the trimmed content.
func trimmedResult(path string, lineNo int, line string, matches []domain.LineMatch) domain.GlobalSearchResult {
	left := strings.TrimLeft(line, " \t\r")
	lead := len(line) - len(left)
	content := strings.TrimRight(left, " \t\r")

	var cols []domain.LineMatch
	for _, m := range matches {
		start, end := m.Start-lead, m.End-lead
		if start < 0 {
			start = 0
		}
		if end > len(content) {
			end = len(content)
		}
		if end > start {
			cols = append(cols, domain.LineMatch{Start: start, End: end})
		}
	}
	return domain.GlobalSearchResult{Path: path, Line: lineNo, Content: content, Matches: cols}
}

// Replace rewrites every match in the files passing the request filters.
// Protected paths are never touched. Failures that concern the request are
// reported in the response; a returned error means the call itself failed.
func (ix *FS) Replace(ctx context.Context, req domain.ReplaceRequest) (domain.ReplaceResponse, error) {
	q, err := compile(req.SearchRequest)
	if err != nil {
		return domain.ReplaceResponse{Success: false, Message: err.Error()}, nil
	}
	if q.IsEmpty() {
		return domain.ReplaceResponse{Success: false, Message: "empty query"}, nil
	}

	files, err := ix.collect(ctx, req.Filters(), true)
	if err != nil {
		if errors.Is(err, ErrRootNotFound) {
			return domain.ReplaceResponse{Success: false, Message: err.Error()}, nil
		}
		return domain.ReplaceResponse{}, err
	}

	var (
		mu      sync.Mutex
		resp    = domain.ReplaceResponse{Success: true}
		changed []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.settings.Workers)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := replaceFile(q, f, req.Replacement)
			if err != nil {
				log.Printf("Failed to replace in %s: %v", f.rel, err)
				return nil
			}
			if n == 0 {
				return nil
			}
			mu.Lock()
			resp.FilesUpdated++
			resp.Occurrences += n
			changed = append(changed, f.rel)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ReplaceResponse{}, err
	}

	sort.Strings(changed)
	log.Printf("Index replace for %q: %d occurrences in %d files", req.Query, resp.Occurrences, resp.FilesUpdated)
	if len(changed) > 0 {
		ix.bus.Publish(domain.CollectionChangedEvent{Paths: changed})
	}
	return resp, nil
}

func replaceFile(q *query.Compiled, f file, replacement string) (int, error) {
	info, err := os.Stat(f.abs)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(f.abs)
	if err != nil {
		return 0, err
	}

	lines := strings.Split(string(data), "\n")
	total := 0
	for i, line := range lines {
		out, n := q.ReplaceLine(line, replacement)
		if n > 0 {
			lines[i] = out
			total += n
		}
	}
	if total == 0 {
		return 0, nil
	}
	if err := os.WriteFile(f.abs, []byte(strings.Join(lines, "\n")), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", f.rel, err)
	}
	return total, nil
}

// Refresh rescans the tree and caches the list of indexed files
func (ix *FS) Refresh(ctx context.Context) error {
	files, err := ix.collect(ctx, domain.Filters{}, false)
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.rel)
	}

	ix.mu.Lock()
	ix.files = paths
	ix.mu.Unlock()
	return nil
}

// Files returns the file list cached by the last Refresh
func (ix *FS) Files() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]string(nil), ix.files...)
}
