package server

import (
	"context"
	"fmt"
	"sort"

	"github.com/vanshika/rxnpath/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies graph connectivity as part of health checks.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}

// Pinger is satisfied by the SQL stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreHealthService pings the SQL store.
type StoreHealthService struct {
	Store Pinger
}

// Probe implements the HealthService interface.
func (s StoreHealthService) Probe(ctx context.Context) error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Ping(ctx)
}

// HealthChecks runs named probes and reports each failure.
type HealthChecks map[string]HealthService

// Probe runs every check in name order.
func (c HealthChecks) Probe(ctx context.Context) map[string]string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	for _, name := range names {
		check := c[name]
		if check == nil {
			continue
		}
		if err := check.Probe(ctx); err != nil {
			results[name] = fmt.Sprintf("error: %v", err)
			continue
		}
		results[name] = "ok"
	}
	return results
}
