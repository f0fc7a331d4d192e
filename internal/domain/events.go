package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted   EventType = "SearchStarted"
	EventSearchCompleted EventType = "SearchCompleted"
	EventSearchFailed    EventType = "SearchFailed"
	EventSearchDiscarded EventType = "SearchDiscarded"
	EventSortChanged     EventType = "SortChanged"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a search request is issued
type SearchStartedEvent struct {
	Token     uint64
	Query     string
	RequestID string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when the latest search request succeeds
type SearchCompletedEvent struct {
	Token     uint64
	Query     string
	Count     int
	Duration  time.Duration
	RequestID string
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the latest search request fails
type SearchFailedEvent struct {
	Token     uint64
	Query     string
	Err       error
	Duration  time.Duration
	RequestID string
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// SearchDiscardedEvent is emitted when a superseded request completes
type SearchDiscardedEvent struct {
	Token  uint64
	Latest uint64
	Query  string
}

func (e SearchDiscardedEvent) Type() EventType { return EventSearchDiscarded }

// SortChangedEvent is emitted when the sort key or direction changes
type SortChangedEvent struct {
	Key       SortKey
	Direction SortDirection
}

func (e SortChangedEvent) Type() EventType { return EventSortChanged }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
