package destinations

import (
	"context"
	"fmt"

	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/avast/retry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func connectOptions(ctx context.Context, config utils.Database, target string) []retry.Option {
	attempts := config.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(config.ConnectDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().Str("target", target).Uint("attempt", n+1).Str("err", err.Error()).Msg("database not reachable, retrying")
		}),
	}
}

// OpenDB opens the database/sql handle used for row inserts, initialization and the error table.
func OpenDB(ctx context.Context, config utils.Database) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", config.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if config.MaxConns > 0 {
		db.SetMaxOpenConns(int(config.MaxConns))
	}

	err = retry.Do(func() error {
		return db.PingContext(ctx)
	}, connectOptions(ctx, config, "sql")...)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Msg("database connection established")
	return db, nil
}

// OpenPool opens the pgx pool used for COPY streaming.
func OpenPool(ctx context.Context, config utils.Database) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(config.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection url: %w", err)
	}
	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	err = retry.Do(func() error {
		return pool.Ping(ctx)
	}, connectOptions(ctx, config, "pool")...)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Int32("max_conns", poolConfig.MaxConns).Msg("connection pool established")
	return pool, nil
}
