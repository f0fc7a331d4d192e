package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"bookstats/internal/books"
	"bookstats/internal/domain"
	"bookstats/internal/eventbus"
)

var (
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookstats_searches_total",
		Help: "Total number of finished searches by outcome",
	}, []string{"outcome"})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookstats_search_duration_seconds",
		Help:    "Duration of book lookups in seconds",
		Buckets: prometheus.DefBuckets,
	})

	StaleResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookstats_stale_results_total",
		Help: "Search results discarded because a newer request was issued",
	})
)

// Attach records search events from bus. The returned func detaches.
func Attach(bus eventbus.EventBus) func() {
	unsubs := []func(){
		bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
			ev, ok := e.(domain.SearchCompletedEvent)
			if !ok {
				return
			}
			SearchesTotal.WithLabelValues(books.Kind(nil)).Inc()
			SearchDuration.Observe(ev.Duration.Seconds())
		}),
		bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
			ev, ok := e.(domain.SearchFailedEvent)
			if !ok {
				return
			}
			SearchesTotal.WithLabelValues(books.Kind(ev.Err)).Inc()
			SearchDuration.Observe(ev.Duration.Seconds())
		}),
		bus.Subscribe(eventbus.EventSearchDiscarded, func(eventbus.DomainEvent) {
			StaleResultsTotal.Inc()
		}),
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Handler exposes the default registry
func Handler() http.Handler { return promhttp.Handler() }

// Serve listens on addr until ctx is done
func Serve(ctx context.Context, addr string, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
