// Package aggregate concatenates the per-origin event sequences into the
// single ordered aggregate that gets published.
package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ita-data/trade-events-aggregator/internal/models"
	"github.com/ita-data/trade-events-aggregator/internal/source"
)

// Aggregator fetches every configured source in order. Sources are passed
// feed first, so feed events always precede secondary-origin events in the
// output regardless of how either source orders its own records.
type Aggregator struct {
	sources []source.Source
}

// New creates an aggregator over the given sources, in output order.
func New(sources ...source.Source) *Aggregator {
	return &Aggregator{sources: sources}
}

// Aggregate fetches and assembles all origins. Origins are independent: a
// failure of one never suppresses the fetch of another, and whatever was
// assembled is returned alongside the joined errors. Callers decide whether
// a partial aggregate is publishable; the runner's policy is that it is not.
func (a *Aggregator) Aggregate(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	var errs []error
	for _, s := range a.sources {
		fetched, err := s.Fetch(ctx)
		if err != nil {
			log.Error().Err(err).Str("source", s.Name()).Msg("Source fetch failed")
			errs = append(errs, fmt.Errorf("source %s: %w", s.Name(), err))
			continue
		}
		events = append(events, fetched...)
	}
	return events, errors.Join(errs...)
}
