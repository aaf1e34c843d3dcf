package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Pool bounds the connections held by one process.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// DefaultPool suits a single API or worker replica.
var DefaultPool = Pool{MaxOpen: 10, MaxIdle: 5, MaxLifetime: 30 * time.Minute}

type options struct {
	pool        Pool
	logger      *slog.Logger
	pingTimeout time.Duration
}

// Option customises Connect.
type Option func(*options)

func WithPool(pool Pool) Option {
	return func(o *options) { o.pool = pool }
}

// WithLogger routes slow queries and driver errors into logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Config returns the GORM settings shared by every connection. Driver errors are translated so
// unique violations surface as gorm.ErrDuplicatedKey.
func Config() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// Connect opens PostgreSQL through GORM, applies the pool limits and pings before returning.
func Connect(ctx context.Context, dsn string, opts ...Option) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres DSN is empty")
	}
	o := options{pool: DefaultPool, pingTimeout: 5 * time.Second}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	cfg := Config()
	if o.logger != nil {
		cfg.Logger = queryLogger(o.logger)
	}
	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	applyPool(o.pool, sqlDB.SetMaxOpenConns, sqlDB.SetMaxIdleConns, sqlDB.SetConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, o.pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// applyPool sets only the limits that are positive, leaving database/sql defaults otherwise.
func applyPool(pool Pool, maxOpen, maxIdle func(int), lifetime func(time.Duration)) {
	if pool.MaxOpen > 0 {
		maxOpen(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		if pool.MaxOpen > 0 && pool.MaxIdle > pool.MaxOpen {
			pool.MaxIdle = pool.MaxOpen
		}
		maxIdle(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		lifetime(pool.MaxLifetime)
	}
}

func queryLogger(logger *slog.Logger) gormlogger.Interface {
	return gormlogger.New(
		slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		},
	)
}
