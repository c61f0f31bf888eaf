package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted     EventType = "SearchStarted"
	EventSearchCompleted   EventType = "SearchCompleted"
	EventSearchCleared     EventType = "SearchCleared"
	EventSearchNavigated   EventType = "SearchNavigated"
	EventReplaced          EventType = "Replaced"
	EventGlobalSearched    EventType = "GlobalSearched"
	EventGlobalReplaced    EventType = "GlobalReplaced"
	EventCollectionChanged EventType = "CollectionChanged"
	EventError             EventType = "Error"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when the in-buffer query is rebuilt
type SearchStartedEvent struct {
	Query   string
	Options SearchOptions
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted after the counter has been recomputed
type SearchCompletedEvent struct {
	Query  string
	Status MatchCountState
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchClearedEvent is emitted when the query is emptied or the find bar closed
type SearchClearedEvent struct{}

func (e SearchClearedEvent) Type() EventType { return EventSearchCleared }

// SearchNavigatedEvent is emitted when the locator selects a match
type SearchNavigatedEvent struct {
	Span    MatchSpan
	Wrapped bool
}

func (e SearchNavigatedEvent) Type() EventType { return EventSearchNavigated }

// ReplacedEvent is emitted after an in-buffer replacement
type ReplacedEvent struct {
	Query string
	Count int
}

func (e ReplacedEvent) Type() EventType { return EventReplaced }

// GlobalSearchedEvent is emitted when fresh cross-collection results are rendered
type GlobalSearchedEvent struct {
	Query   string
	Results int
	Files   int
}

func (e GlobalSearchedEvent) Type() EventType { return EventGlobalSearched }

// GlobalReplacedEvent is emitted after a successful batch replace
type GlobalReplacedEvent struct {
	Query        string
	FilesUpdated int
}

func (e GlobalReplacedEvent) Type() EventType { return EventGlobalReplaced }

// CollectionChangedEvent is emitted when files in the collection were rewritten
type CollectionChangedEvent struct {
	Paths []string
}

func (e CollectionChangedEvent) Type() EventType { return EventCollectionChanged }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	RootDir string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
