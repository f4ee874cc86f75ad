// Package source contains one adapter per upstream event source. Every
// adapter fetches its raw records and runs them through the shared assembly
// engine; the adapters differ only in transport and field-name mapping.
package source

import (
	"context"

	"github.com/ita-data/trade-events-aggregator/internal/models"
)

// Source is one upstream origin of trade events.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Event, error)
}
