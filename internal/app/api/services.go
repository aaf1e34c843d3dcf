package api

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	catalogmemory "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/gamerlink-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/gamerlink-api/internal/domains/catalog/ports"
	favoritememory "github.com/Apurer/gamerlink-api/internal/domains/favorites/adapters/memory"
	favoriteobs "github.com/Apurer/gamerlink-api/internal/domains/favorites/adapters/observability"
	favoritepostgres "github.com/Apurer/gamerlink-api/internal/domains/favorites/adapters/persistence/postgres"
	favoriteapp "github.com/Apurer/gamerlink-api/internal/domains/favorites/application"
	favoriteports "github.com/Apurer/gamerlink-api/internal/domains/favorites/ports"
	ordermemory "github.com/Apurer/gamerlink-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/gamerlink-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/gamerlink-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/Apurer/gamerlink-api/internal/domains/orders/application"
	orderports "github.com/Apurer/gamerlink-api/internal/domains/orders/ports"
	reviewdirectory "github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/directory"
	reviewmemory "github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/memory"
	reviewobs "github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/observability"
	reviewpostgres "github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/persistence/postgres"
	reviewapp "github.com/Apurer/gamerlink-api/internal/domains/reviews/application"
	reviewports "github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
	usermemory "github.com/Apurer/gamerlink-api/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/gamerlink-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/gamerlink-api/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/Apurer/gamerlink-api/internal/domains/users/application"
	userports "github.com/Apurer/gamerlink-api/internal/domains/users/ports"
	"github.com/Apurer/gamerlink-api/internal/platform/bootstrap"
	"github.com/Apurer/gamerlink-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/gamerlink-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/gamerlink-api/internal/platform/postgres"
)

// Services is the decorated application layer shared by the API, worker, and sweeper processes.
type Services struct {
	Catalog   catalogports.Service
	Users     userports.Service
	Orders    orderports.Service
	Reviews   reviewports.Service
	Favorites favoriteports.Service
	// Guard must have succeeded before any service touches storage.
	Guard *bootstrap.Guard
	// Postgres reports whether the services are backed by PostgreSQL rather than memory.
	Postgres bool
}

type repositories struct {
	catalog   catalogports.Repository
	users     userports.Repository
	orders    orderports.Repository
	reviews   reviewports.Store
	favorites favoriteports.Repository
	schema    bootstrap.Schema
	seeder    bootstrap.Seeder
}

// BuildServices picks PostgreSQL when a DSN is configured and reachable, in-memory adapters otherwise,
// and wraps every application service in its observability decorator. The returned cleanup closes storage.
func BuildServices(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Services, func()) {
	logger := effectiveLogger(instruments)
	repos, postgres, cleanup := buildRepositories(ctx, cfg, logger)

	catalog := catalogobs.New(
		catalogapp.NewService(repos.catalog),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	users := userobs.New(
		userapp.NewService(repos.users),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	orders := orderobs.New(
		orderapp.NewService(repos.orders),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	reviews := reviewobs.New(
		reviewapp.NewService(repos.reviews, reviewdirectory.NewUsers(users)),
		reviewobs.WithLogger(logger),
		reviewobs.WithTracer(instruments.Tracer("internal.reviews.application")),
		reviewobs.WithMeter(instruments.Meter("internal.reviews.application")),
	)
	favorites := favoriteobs.New(
		favoriteapp.NewService(repos.favorites, catalog),
		favoriteobs.WithLogger(logger),
		favoriteobs.WithTracer(instruments.Tracer("internal.favorites.application")),
		favoriteobs.WithMeter(instruments.Meter("internal.favorites.application")),
	)

	guardOpts := []bootstrap.GuardOption{bootstrap.WithLogger(logger)}
	if cfg.SeedDisabled {
		guardOpts = append(guardOpts, bootstrap.WithoutSeeding())
	}
	return &Services{
		Catalog:   catalog,
		Users:     users,
		Orders:    orders,
		Reviews:   reviews,
		Favorites: favorites,
		Guard:     bootstrap.NewGuard(repos.schema, repos.seeder, guardOpts...),
		Postgres:  postgres,
	}, cleanup
}

func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (repositories, bool, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryRepositories(), false, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN,
		platformpostgres.WithPool(cfg.pool()),
		platformpostgres.WithLogger(logger))
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryRepositories(), false, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return memoryRepositories(), false, func() {}
	}
	logger.Info("repositories configured with postgres")
	return postgresRepositories(db), true, func() { _ = sqlDB.Close() }
}

func (c Config) pool() platformpostgres.Pool {
	pool := platformpostgres.DefaultPool
	if c.PostgresMaxConns > 0 {
		pool.MaxOpen = c.PostgresMaxConns
		pool.MaxIdle = max(1, c.PostgresMaxConns/2)
	}
	return pool
}

func postgresRepositories(db *gorm.DB) repositories {
	return repositories{
		catalog:   catalogpostgres.NewRepository(db),
		users:     userpostgres.NewRepository(db),
		orders:    orderpostgres.NewRepository(db),
		reviews:   reviewpostgres.NewStore(db),
		favorites: favoritepostgres.NewRepository(db),
		schema:    migrations.NewSchema(db),
		seeder:    migrations.NewSeeder(db),
	}
}

func memoryRepositories() repositories {
	catalog := catalogmemory.NewRepository()
	users := usermemory.NewRepository()
	orders := ordermemory.NewRepository()
	reviews := reviewmemory.NewStore(orders, catalog)
	favorites := favoritememory.NewRepository()
	return repositories{
		catalog:   catalog,
		users:     users,
		orders:    orders,
		reviews:   reviews,
		favorites: favorites,
		schema:    bootstrap.NoopSchema{},
		seeder: bootstrap.NewRepositorySeeder(bootstrap.MemoryRepositories{
			Catalog:   catalog,
			Users:     users,
			Orders:    orders,
			Reviews:   reviews,
			Favorites: favorites,
		}),
	}
}
