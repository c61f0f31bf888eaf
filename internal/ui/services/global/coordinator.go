// Package global coordinates search and replace across the whole collection
// through a content index.
package global

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"editgrep/internal/domain"
	"editgrep/internal/eventbus"
)

// Index is the content index covering the collection
type Index interface {
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.GlobalSearchResult, error)
	Replace(ctx context.Context, req domain.ReplaceRequest) (domain.ReplaceResponse, error)
}

// Renderer displays cross-collection results
type Renderer interface {
	RenderResults(v View)
	RenderEmpty()
	RenderError(msg string)
}

// QuerySource reports what the global search box holds right now
type QuerySource interface {
	CurrentQuery() string
}

// EntityDirectory lists local named entities merged into results
type EntityDirectory interface {
	Entities() []domain.Entity
}

// Editor opens a collection file at a line
type Editor interface {
	OpenAt(path string, line int, highlight time.Duration) error
}

// Notifier shows transient notices
type Notifier interface {
	Notify(message string, kind domain.NoticeKind, duration time.Duration)
}

// Coordinator runs cross-collection searches and guards against stale responses
type Coordinator struct {
	index    Index
	renderer Renderer
	source   QuerySource
	entities EntityDirectory
	editor   Editor
	bus      eventbus.EventBus
	settings Settings

	mu         sync.Mutex
	generation uint64
	last       ResultSet
}

// NewCoordinator creates a new search coordinator
func NewCoordinator(index Index, renderer Renderer, source QuerySource, bus eventbus.EventBus, settings Settings) *Coordinator {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	if settings.MinQueryLength <= 0 {
		settings.MinQueryLength = DefaultSettings().MinQueryLength
	}
	if settings.EntityLimit <= 0 {
		settings.EntityLimit = DefaultSettings().EntityLimit
	}
	return &Coordinator{
		index:    index,
		renderer: renderer,
		source:   source,
		bus:      bus,
		settings: settings,
	}
}

// SetEntityDirectory sets the directory merged into results
func (c *Coordinator) SetEntityDirectory(d EntityDirectory) {
	c.entities = d
}

// SetEditor sets the editor used by Open
func (c *Coordinator) SetEditor(e Editor) {
	c.editor = e
}

// Search sends one request to the index and renders the outcome unless a
// newer search or an emptied query made it stale.
func (c *Coordinator) Search(ctx context.Context, query string, opts domain.SearchOptions, filters domain.Filters) {
	if len(query) < c.settings.MinQueryLength {
		return
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	results, err := c.index.Search(ctx, domain.NewSearchRequest(query, opts, filters))

	if c.source != nil && len(c.source.CurrentQuery()) < c.settings.MinQueryLength {
		log.Printf("Global search for %q finished after the query was cleared", query)
		c.renderer.RenderEmpty()
		return
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		log.Printf("Discarding stale global search response for %q", query)
		return
	}
	if err == nil {
		c.last = ResultSet{Query: query, Options: opts, Filters: filters, Results: results}
	}
	c.mu.Unlock()

	if err != nil {
		log.Printf("Global search for %q failed: %v", query, err)
		c.renderer.RenderError(fmt.Sprintf("Search failed: %v", err))
		return
	}

	groups := GroupResults(results)
	view := View{
		Query:    query,
		Groups:   groups,
		Entities: c.matchEntities(query),
		Total:    len(results),
	}
	log.Printf("Global search for %q: %d results in %d files, %d entities", query, len(results), len(groups), len(view.Entities))
	c.renderer.RenderResults(view)
	c.bus.Publish(domain.GlobalSearchedEvent{Query: query, Results: len(results), Files: len(groups)})
}

// LastResults returns the path results of the last fresh successful search
func (c *Coordinator) LastResults() ResultSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Open shows path at line (1-based) in the editor with a self-clearing highlight
func (c *Coordinator) Open(path string, line int) error {
	if c.editor == nil {
		return fmt.Errorf("no editor to open %s", path)
	}
	if err := c.editor.OpenAt(path, line, c.settings.HighlightDuration); err != nil {
		return fmt.Errorf("failed to open %s:%d: %w", path, line, err)
	}
	return nil
}

func (c *Coordinator) matchEntities(query string) []domain.Entity {
	if c.entities == nil {
		return nil
	}
	var out []domain.Entity
	for _, e := range c.entities.Entities() {
		if len(out) >= c.settings.EntityLimit {
			break
		}
		if e.Matches(query) {
			out = append(out, e)
		}
	}
	return out
}

// GroupResults groups results by path in first-seen order. Content is
// trimmed and match columns shifted to stay aligned with it.
func GroupResults(results []domain.GlobalSearchResult) []FileGroup {
	var groups []FileGroup
	pos := make(map[string]int)

	for _, r := range results {
		i, ok := pos[r.Path]
		if !ok {
			i = len(groups)
			pos[r.Path] = i
			groups = append(groups, FileGroup{Path: r.Path})
		}
		groups[i].Entries = append(groups[i].Entries, trimEntry(r))
	}
	return groups
}

func trimEntry(r domain.GlobalSearchResult) Entry {
	left := strings.TrimLeft(r.Content, " \t\r\n")
	lead := len(r.Content) - len(left)
	content := strings.TrimRight(left, " \t\r\n")

	var matches []domain.LineMatch
	for _, m := range r.Matches {
		start, end := m.Start-lead, m.End-lead
		if start < 0 {
			start = 0
		}
		if end > len(content) {
			end = len(content)
		}
		if end > start {
			matches = append(matches, domain.LineMatch{Start: start, End: end})
		}
	}
	return Entry{Line: r.Line, Content: content, Matches: matches}
}
