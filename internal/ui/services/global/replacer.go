package global

import (
	"context"
	"errors"
	"fmt"
	"log"

	"editgrep/internal/domain"
	"editgrep/internal/eventbus"
)

// ErrReplaceFailed is returned when the index rejects a batch replace
var ErrReplaceFailed = errors.New("replace failed")

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, dialog domain.ConfirmDialog) (bool, error)
}

// Collection is the set of files open in the editor
type Collection interface {
	Refresh(ctx context.Context) error
}

// Replacer performs confirmed batch replacement across the collection
type Replacer struct {
	index      Index
	confirmer  Confirmer
	collection Collection
	notifier   Notifier
	search     *Coordinator
	bus        eventbus.EventBus
	settings   Settings
}

// NewReplacer creates a replacer that re-runs searches through search
func NewReplacer(index Index, confirmer Confirmer, collection Collection, notifier Notifier, search *Coordinator, bus eventbus.EventBus, settings Settings) *Replacer {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	return &Replacer{
		index:      index,
		confirmer:  confirmer,
		collection: collection,
		notifier:   notifier,
		search:     search,
		bus:        bus,
		settings:   settings,
	}
}

// Summarize returns the number of distinct files and the number of
// occurrences in results. A result without match columns counts once.
func Summarize(results []domain.GlobalSearchResult) (files, occurrences int) {
	seen := make(map[string]struct{})
	for _, r := range results {
		seen[r.Path] = struct{}{}
		if n := len(r.Matches); n > 0 {
			occurrences += n
		} else {
			occurrences++
		}
	}
	return len(seen), occurrences
}

// ConfirmDialogFor builds the confirmation prompt for a batch replace
func ConfirmDialogFor(query, replacement string, results []domain.GlobalSearchResult) domain.ConfirmDialog {
	files, occurrences := Summarize(results)
	return domain.ConfirmDialog{
		Title:       ConfirmTitle,
		Message:     fmt.Sprintf("Replace %d occurrences of \"%s\" with \"%s\" in %d files?", occurrences, query, replacement, files),
		ConfirmText: ConfirmReplace,
		CancelText:  ConfirmCancel,
		Danger:      true,
	}
}

// Replace asks for confirmation and then replaces query with replacement in
// every file of last. It does nothing without a query or results.
func (r *Replacer) Replace(ctx context.Context, query, replacement string, last ResultSet) error {
	if query == "" || last.Empty() {
		return nil
	}

	ok, err := r.confirmer.Confirm(ctx, ConfirmDialogFor(query, replacement, last.Results))
	if err != nil {
		return fmt.Errorf("failed to confirm replace: %w", err)
	}
	if !ok {
		log.Printf("Replace of %q declined", query)
		return nil
	}

	req := domain.ReplaceRequest{
		SearchRequest: domain.NewSearchRequest(query, last.Options, last.Filters),
		Replacement:   replacement,
	}
	resp, err := r.index.Replace(ctx, req)
	if err != nil {
		log.Printf("Replace of %q failed: %v", query, err)
		r.notify(fmt.Sprintf("Replace failed: %v", err), domain.NoticeError)
		return fmt.Errorf("%w: %v", ErrReplaceFailed, err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "Replace failed"
		}
		log.Printf("Replace of %q rejected: %s", query, msg)
		r.notify(msg, domain.NoticeError)
		return fmt.Errorf("%w: %s", ErrReplaceFailed, msg)
	}

	log.Printf("Replaced %d occurrences of %q in %d files", resp.Occurrences, query, resp.FilesUpdated)
	r.notify(fmt.Sprintf("Updated %d files", resp.FilesUpdated), domain.NoticeSuccess)
	r.bus.Publish(domain.GlobalReplacedEvent{Query: query, FilesUpdated: resp.FilesUpdated})

	if r.collection != nil {
		if err := r.collection.Refresh(ctx); err != nil {
			log.Printf("Failed to refresh collection: %v", err)
		}
	}
	if r.search != nil {
		r.search.Search(ctx, query, last.Options, last.Filters)
	}
	return nil
}

func (r *Replacer) notify(msg string, kind domain.NoticeKind) {
	if r.notifier != nil {
		r.notifier.Notify(msg, kind, r.settings.NoticeDuration)
	}
}
