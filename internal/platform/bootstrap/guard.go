// Package bootstrap prepares storage before the first request: schema, then seed data.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Schema creates or upgrades the storage schema.
type Schema interface {
	EnsureSchema(ctx context.Context) error
}

// Seeder inserts the initial dataset into empty storage.
type Seeder interface {
	// HasData reports whether any services, users, orders, categories or banners exist.
	HasData(ctx context.Context) (bool, error)
	Seed(ctx context.Context, dataset *Dataset) error
}

// DatasetLoader supplies the dataset lazily so hashing only happens when seeding runs.
type DatasetLoader func() (*Dataset, error)

// NoopSchema is used by storage without a schema, such as the in-memory adapters.
type NoopSchema struct{}

func (NoopSchema) EnsureSchema(context.Context) error { return nil }

// Guard runs schema and seeding once per process. Concurrent callers wait for the first to finish.
type Guard struct {
	schema Schema
	seeder Seeder
	load   DatasetLoader
	logger *slog.Logger

	done atomic.Bool
	mu   sync.Mutex
}

type GuardOption func(*Guard)

func WithLogger(logger *slog.Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithDatasetLoader replaces the embedded dataset.
func WithDatasetLoader(load DatasetLoader) GuardOption {
	return func(g *Guard) {
		if load != nil {
			g.load = load
		}
	}
}

// WithoutSeeding disables seeding while keeping schema management.
func WithoutSeeding() GuardOption {
	return func(g *Guard) {
		g.seeder = nil
	}
}

func NewGuard(schema Schema, seeder Seeder, opts ...GuardOption) *Guard {
	g := &Guard{
		schema: schema,
		seeder: seeder,
		load:   func() (*Dataset, error) { return LoadEmbedded(BcryptHasher) },
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if g.schema == nil {
		g.schema = NoopSchema{}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Ready reports whether Ensure has completed successfully.
func (g *Guard) Ready() bool {
	return g.done.Load()
}

// Ensure makes storage usable. Schema failures are returned and leave the guard unset so a later call retries.
// Seed failures are logged only.
func (g *Guard) Ensure(ctx context.Context) error {
	if g.done.Load() {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done.Load() {
		return nil
	}

	if err := g.schema.EnsureSchema(ctx); err != nil {
		g.logger.ErrorContext(ctx, "schema initialization failed", slog.String("error", err.Error()))
		return fmt.Errorf("ensure schema: %w", err)
	}
	if g.seeder != nil {
		g.seed(ctx)
	}
	g.done.Store(true)
	g.logger.InfoContext(ctx, "storage initialized")
	return nil
}

func (g *Guard) seed(ctx context.Context) {
	populated, err := g.seeder.HasData(ctx)
	if err != nil {
		g.logger.WarnContext(ctx, "seed check failed", slog.String("error", err.Error()))
		return
	}
	if populated {
		g.logger.InfoContext(ctx, "existing data found, skipping seed")
		return
	}
	dataset, err := g.load()
	if err != nil {
		g.logger.WarnContext(ctx, "seed data could not be loaded", slog.String("error", err.Error()))
		return
	}
	if err := g.seeder.Seed(ctx, dataset); err != nil {
		g.logger.WarnContext(ctx, "seed data initialization failed", slog.String("error", err.Error()))
		return
	}
	g.logger.InfoContext(ctx, "seed data inserted",
		slog.Int("services", len(dataset.Services)),
		slog.Int("users", len(dataset.Users)),
		slog.Int("orders", len(dataset.Orders)),
		slog.Int("reviews", len(dataset.Reviews)))
}
