package search

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bookstats/internal/books"
	"bookstats/internal/domain"
	"bookstats/internal/eventbus"
)

// Lookup is the book lookup service
type Lookup interface {
	Search(ctx context.Context, query string) ([]domain.Volume, error)
}

// Controller owns the search state and issues lookups. Only the most
// recently issued request may update the state; starting a new one cancels
// the previous request.
type Controller struct {
	lookup  Lookup
	bus     eventbus.EventBus
	timeout time.Duration
	log     zerolog.Logger

	mu       sync.Mutex
	state    State
	seq      uint64
	cancel   context.CancelFunc
	watchers []func(State)
}

// Option configures a Controller
type Option func(*Controller)

// WithBus publishes search events on bus
func WithBus(bus eventbus.EventBus) Option {
	return func(c *Controller) { c.bus = bus }
}

// WithTimeout bounds each lookup
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController creates a controller starting from initial
func NewController(lookup Lookup, initial State, opts ...Option) *Controller {
	c := &Controller{
		lookup: lookup,
		state:  initial,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "search").Logger()
	return c
}

// OnChange registers fn to be called after every state transition
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, fn)
}

// Search issues one lookup for query and returns the visible result set
// afterwards. Loading is set before the lookup starts. Failures keep the
// previous results and are reported as events, never returned.
func (c *Controller) Search(ctx context.Context, query string) []domain.Volume {
	reqCtx, cancel, token, requestID := c.begin(ctx, query)
	defer cancel()

	start := time.Now()
	items, err := c.lookup.Search(reqCtx, query)
	return c.finish(token, query, requestID, items, err, time.Since(start))
}

func (c *Controller) begin(ctx context.Context, query string) (context.Context, context.CancelFunc, uint64, string) {
	requestID := uuid.NewString()
	ctx = books.ContextWithRequestID(ctx, requestID)

	var (
		reqCtx context.Context
		cancel context.CancelFunc
	)
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.seq++
	token := c.seq
	c.state = c.state.OnQueryChange(query).OnFetchStart(token)
	snapshot := c.commit()
	c.mu.Unlock()

	c.publish(domain.SearchStartedEvent{Token: token, Query: query, RequestID: requestID})
	c.notify(snapshot)

	return reqCtx, cancel, token, requestID
}

func (c *Controller) finish(token uint64, query, requestID string, items []domain.Volume, err error, took time.Duration) []domain.Volume {
	c.mu.Lock()
	if !c.state.IsLatest(token) {
		latest := c.state.Token
		visible := c.state.Visible()
		c.mu.Unlock()

		c.log.Debug().
			Uint64("token", token).
			Uint64("latest", latest).
			Str("query", query).
			Msg("discarding superseded search result")
		c.publish(domain.SearchDiscardedEvent{Token: token, Latest: latest, Query: query})
		return visible
	}

	if err != nil {
		c.state = c.state.OnFetchFailed(token, err)
	} else {
		c.state = c.state.OnFetchComplete(token, items)
	}
	snapshot := c.commit()
	c.mu.Unlock()

	if err != nil {
		c.log.Error().
			Err(err).
			Str("kind", books.Kind(err)).
			Str("query", query).
			Str("request_id", requestID).
			Dur("duration", took).
			Msg("search failed")
		c.publish(domain.SearchFailedEvent{Token: token, Query: query, Err: err, Duration: took, RequestID: requestID})
	} else {
		c.log.Info().
			Str("query", query).
			Int("count", len(items)).
			Str("request_id", requestID).
			Dur("duration", took).
			Msg("search completed")
		c.publish(domain.SearchCompletedEvent{Token: token, Query: query, Count: len(items), Duration: took, RequestID: requestID})
	}
	c.notify(snapshot)

	return snapshot.Visible()
}

// SetQuery records the query text without issuing a lookup
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	if c.state.Query == query {
		c.mu.Unlock()
		return
	}
	c.state = c.state.OnQueryChange(query)
	snapshot := c.commit()
	c.mu.Unlock()

	c.notify(snapshot)
}

// SetSort changes the sort key and direction
func (c *Controller) SetSort(key domain.SortKey, direction domain.SortDirection) {
	c.mu.Lock()
	if c.state.Key == key && c.state.Direction == direction {
		c.mu.Unlock()
		return
	}
	c.state = c.state.OnSortChange(key, direction)
	snapshot := c.commit()
	c.mu.Unlock()

	c.publish(domain.SortChangedEvent{Key: key, Direction: direction})
	c.notify(snapshot)
}

// Snapshot returns the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Visible returns the current results in display order
func (c *Controller) Visible() []domain.Volume {
	return c.Snapshot().Visible()
}

// Cancel aborts the in-flight request, if any
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// commit bumps the revision; callers hold mu
func (c *Controller) commit() State {
	c.state.Revision++
	return c.state
}

func (c *Controller) publish(event domain.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}

func (c *Controller) notify(s State) {
	c.mu.Lock()
	watchers := make([]func(State), len(c.watchers))
	copy(watchers, c.watchers)
	c.mu.Unlock()

	for _, fn := range watchers {
		fn(s)
	}
}
