package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ita-data/trade-events-aggregator/internal/models"
)

// EventAggregator builds the full ordered event sequence for one run.
type EventAggregator interface {
	Aggregate(ctx context.Context) ([]models.Event, error)
}

// DocumentSink publishes the serialized aggregate.
type DocumentSink interface {
	PutJSON(ctx context.Context, key string, v any) error
}

// RunNotifier announces a completed run. Optional.
type RunNotifier interface {
	RunCompleted(ctx context.Context, event models.RunCompletedEvent) error
}

// Runner executes one synchronous aggregation pass: aggregate, publish,
// notify. Runs share no state and are safe to repeat on a timer.
type Runner struct {
	aggregator EventAggregator
	sink       DocumentSink
	notifier   RunNotifier
	objectKey  string
}

// NewRunner wires a runner. notifier may be nil, in which case no
// notification is sent.
func NewRunner(aggregator EventAggregator, sink DocumentSink, notifier RunNotifier, objectKey string) *Runner {
	return &Runner{
		aggregator: aggregator,
		sink:       sink,
		notifier:   notifier,
		objectKey:  objectKey,
	}
}

// Run performs one pass and returns the number of events published. A failed
// origin fails the whole run: nothing is published from a partial aggregate,
// so the previously published document stays in place. A notification
// failure after a successful upload is logged, never surfaced.
func (r *Runner) Run(ctx context.Context, runID string) (int, error) {
	start := time.Now()

	events, err := r.aggregator.Aggregate(ctx)
	if err != nil {
		return 0, err
	}

	if err := r.sink.PutJSON(ctx, r.objectKey, events); err != nil {
		return 0, err
	}

	log.Info().
		Str("run_id", runID).
		Int("events", len(events)).
		Dur("duration", time.Since(start)).
		Msgf("Uploaded %s with %d trade events", r.objectKey, len(events))

	if r.notifier != nil {
		notice := models.RunCompletedEvent{
			RunID:     runID,
			Events:    len(events),
			ObjectKey: r.objectKey,
			Duration:  time.Since(start).String(),
			Timestamp: time.Now(),
		}
		if err := r.notifier.RunCompleted(ctx, notice); err != nil {
			log.Error().Err(err).Str("run_id", runID).Msg("Failed to publish run notification")
		}
	}

	return len(events), nil
}
