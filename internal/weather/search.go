package weather

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// SearchOptions tunes city search.
type SearchOptions struct {
	MinLength          int
	Limit              int
	ProximityThreshold float64
	// Collation is the language used to order names.
	Collation language.Tag
}

// DefaultSearchOptions returns the dashboard's stock search settings.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		MinLength:          2,
		Limit:              15,
		ProximityThreshold: DefaultProximityThreshold,
		Collation:          language.Russian,
	}
}

// Searcher merges a static city list with geocoder results.
type Searcher struct {
	popular  []City
	geocoder Geocoder
	opts     SearchOptions
	logger   *slog.Logger
}

// NewSearcher creates a Searcher. geocoder may be nil for local-only search.
func NewSearcher(popular []City, geocoder Geocoder, opts SearchOptions, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		popular:  popular,
		geocoder: geocoder,
		opts:     opts,
		logger:   logger,
	}
}

// MinLength is the shortest query that triggers a search.
func (s *Searcher) MinLength() int {
	return s.opts.MinLength
}

// Search returns at most Limit ranked candidates for query. Queries shorter
// than MinLength return nothing and never reach the geocoder. Geocoder
// failures fall back to local matches.
func (s *Searcher) Search(ctx context.Context, query string) []City {
	query = strings.TrimSpace(query)
	if query == "" || utf8.RuneCountInString(query) < s.opts.MinLength {
		return []City{}
	}

	results := s.matchLocal(query)

	if s.geocoder != nil {
		remote, err := s.geocoder.SearchCities(ctx, query)
		if err != nil {
			s.logger.Warn("city search fell back to local list", "query", query, "error", err)
		} else {
			results = AppendDistinct(results, remote, s.opts.ProximityThreshold)
		}
	}

	RankCities(results, query, s.opts.Collation)

	if s.opts.Limit > 0 && len(results) > s.opts.Limit {
		results = results[:s.opts.Limit]
	}
	return results
}

func (s *Searcher) matchLocal(query string) []City {
	q := strings.ToLower(query)
	out := make([]City, 0)
	for _, c := range s.popular {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}
