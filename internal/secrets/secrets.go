// Package secrets hides where credentials come from. The aggregator only
// ever asks for a named secret at run time; deployments decide whether that
// resolves to an environment variable or a real secret store.
package secrets

import (
	"context"
	"fmt"
	"os"
)

// Source retrieves a named secret. Implementations must not cache across
// runs; the caller fetches fresh on every aggregation.
type Source interface {
	Get(ctx context.Context, name string) (string, error)
}

// EnvSource resolves secrets from environment variables, which godotenv has
// already populated from .env in development.
type EnvSource struct{}

func (EnvSource) Get(_ context.Context, name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("secret %s is not set", name)
	}
	return v, nil
}
