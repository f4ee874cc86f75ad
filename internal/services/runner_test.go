package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ita-data/trade-events-aggregator/internal/models"
)

type stubAggregator struct {
	events []models.Event
	err    error
}

func (s *stubAggregator) Aggregate(context.Context) ([]models.Event, error) {
	return s.events, s.err
}

type stubSink struct {
	key  string
	body any
	err  error
	puts int
}

func (s *stubSink) PutJSON(_ context.Context, key string, v any) error {
	s.puts++
	s.key = key
	s.body = v
	return s.err
}

type stubNotifier struct {
	notices []models.RunCompletedEvent
	err     error
}

func (s *stubNotifier) RunCompleted(_ context.Context, e models.RunCompletedEvent) error {
	s.notices = append(s.notices, e)
	return s.err
}

func TestRunPublishesAggregate(t *testing.T) {
	events := []models.Event{{EventID: "f1"}, {EventID: "s1"}}
	sink := &stubSink{}
	notifier := &stubNotifier{}

	runner := NewRunner(&stubAggregator{events: events}, sink, notifier, "ita.json")

	count, err := runner.Run(context.Background(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, "ita.json", sink.key)
	assert.Equal(t, events, sink.body)

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, "run-1", notifier.notices[0].RunID)
	assert.Equal(t, 2, notifier.notices[0].Events)
	assert.Equal(t, "ita.json", notifier.notices[0].ObjectKey)
}

func TestRunFailedOriginPublishesNothing(t *testing.T) {
	sink := &stubSink{}
	agg := &stubAggregator{
		events: []models.Event{{EventID: "s1"}},
		err:    errors.New("source feed: endpoint unreachable"),
	}

	runner := NewRunner(agg, sink, nil, "ita.json")

	_, err := runner.Run(context.Background(), "run-2")
	require.Error(t, err)
	assert.Zero(t, sink.puts, "a partial aggregate must not be published")
}

func TestRunPublishFailureReported(t *testing.T) {
	sink := &stubSink{err: errors.New("bucket unavailable")}
	notifier := &stubNotifier{}

	runner := NewRunner(&stubAggregator{events: []models.Event{{EventID: "f1"}}}, sink, notifier, "ita.json")

	_, err := runner.Run(context.Background(), "run-3")
	require.Error(t, err)
	assert.Empty(t, notifier.notices)
}

func TestRunNotifierFailureTolerated(t *testing.T) {
	sink := &stubSink{}
	notifier := &stubNotifier{err: errors.New("broker down")}

	runner := NewRunner(&stubAggregator{events: []models.Event{}}, sink, notifier, "ita.json")

	count, err := runner.Run(context.Background(), "run-4")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 1, sink.puts)
}

func TestRunWithoutNotifier(t *testing.T) {
	runner := NewRunner(&stubAggregator{events: []models.Event{{EventID: "f1"}}}, &stubSink{}, nil, "ita.json")

	count, err := runner.Run(context.Background(), "run-5")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
