package app

import (
	"io"

	"github.com/rs/zerolog"

	"bookstats/internal/books"
	"bookstats/internal/config"
	"bookstats/internal/eventbus"
	"bookstats/internal/logger"
	"bookstats/internal/logic"
	"bookstats/internal/search"
)

// NewLogger builds the application logger writing to out
func NewLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	return logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: logger.ParseLogFormat(cfg.Logging.Format),
		Output: out,
	})
}

// NewClient builds the Google Books client described by cfg
func NewClient(cfg *config.Config, log zerolog.Logger) (*books.Client, error) {
	return books.NewClient(
		books.WithBaseURL(cfg.API.BaseURL),
		books.WithAPIKey(cfg.API.APIKey),
		books.WithMaxResults(cfg.API.MaxResults),
		books.WithTimeout(cfg.Timeout()),
		books.WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst),
		books.WithLogger(log),
	)
}

// SortOptions returns the sort options selected by cfg
func SortOptions(cfg *config.Config) []logic.SortOption {
	return []logic.SortOption{
		logic.WithLocale(logic.ParseLocale(cfg.UI.Locale)),
		logic.WithLegacyRatingOrder(cfg.UI.LegacyRatingOrder),
	}
}

// NewController builds a search controller over lookup. bus may be nil.
func NewController(cfg *config.Config, lookup search.Lookup, bus eventbus.EventBus, log zerolog.Logger) *search.Controller {
	initial := search.NewState(cfg.Search.DefaultQuery, cfg.SortKey(), cfg.SortDirection(), SortOptions(cfg)...)

	opts := []search.Option{
		search.WithTimeout(cfg.Timeout()),
		search.WithLogger(log),
	}
	if bus != nil {
		opts = append(opts, search.WithBus(bus))
	}
	return search.NewController(lookup, initial, opts...)
}
