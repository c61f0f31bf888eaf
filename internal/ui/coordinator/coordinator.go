// Package coordinator wires the search engine to a host: the terminal UI or
// the headless command line.
package coordinator

import (
	"context"
	"errors"
	"log"

	"editgrep/internal/config"
	"editgrep/internal/domain"
	"editgrep/internal/editor"
	"editgrep/internal/eventbus"
	"editgrep/internal/index"
	"editgrep/internal/logic"
	"editgrep/internal/ui/services/global"
	"editgrep/internal/ui/services/search"
)

// Host is what a front end supplies to show results and talk to the user
type Host interface {
	global.Renderer
	global.QuerySource
	global.Confirmer
	global.Notifier
}

// Coordinator manages all services and their interactions
type Coordinator struct {
	// Services
	Index     *index.FS
	Workspace *editor.Workspace
	Entities  *logic.MemoryEntityStore
	Global    *global.Coordinator
	Replacer  *global.Replacer

	// Settings
	Search       search.Settings
	GlobalConfig global.Settings
	LineHeightPx int
	Options      domain.SearchOptions
	Filters      domain.Filters

	bus eventbus.EventBus
}

// NewCoordinator creates the index, workspace and entity directory for cfg
func NewCoordinator(cfg *config.Config, bus eventbus.EventBus) *Coordinator {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	return &Coordinator{
		Index:     index.New(cfg.RootDir, cfg.Index, bus),
		Workspace: editor.NewWorkspace(cfg.RootDir, logic.NewMemoryOpenFileStore(), bus),
		Entities:  logic.NewMemoryEntityStoreFrom(cfg.Entities),
		Search: search.Settings{
			ScrollMarginPx: cfg.Search.ScrollMarginPx,
			NoticeDuration: cfg.Search.NoticeDuration(),
		},
		GlobalConfig: global.Settings{
			MinQueryLength:    cfg.Search.MinQueryLength,
			EntityLimit:       cfg.Search.EntityLimit,
			HighlightDuration: cfg.Search.HighlightDuration(),
			NoticeDuration:    cfg.Search.NoticeDuration(),
		},
		LineHeightPx: cfg.Search.LineHeightPx,
		Options:      cfg.Search.Options(),
		Filters:      cfg.Search.Filters(),
		bus:          bus,
	}
}

// Attach builds the cross-collection coordinators against host
func (c *Coordinator) Attach(host Host) {
	c.Global = global.NewCoordinator(c.Index, host, host, c.bus, c.GlobalConfig)
	c.Global.SetEntityDirectory(c.Entities)
	c.Global.SetEditor(c.Workspace)
	c.Replacer = global.NewReplacer(c.Index, host, collections{c.Index, c.Workspace}, host, c.Global, c.bus, c.GlobalConfig)
}

// NewLocalSearch binds an in-buffer search service to buf
func (c *Coordinator) NewLocalSearch(buf search.Buffer, notifier search.Notifier) *search.Service {
	return search.NewService(buf, notifier, c.bus, c.Search)
}

// Bus returns the event bus shared by the services
func (c *Coordinator) Bus() eventbus.EventBus {
	return c.bus
}

// collections refreshes every view of the collection in order
type collections []global.Collection

func (cs collections) Refresh(ctx context.Context) error {
	var errs []error
	for _, col := range cs {
		if err := col.Refresh(ctx); err != nil {
			log.Printf("Collection refresh failed: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
