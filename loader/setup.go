package loader

import (
	"context"
	"fmt"

	"github.com/KYVENetwork/dlt-sink/destinations"
	"github.com/KYVENetwork/dlt-sink/loader/collector"
	"github.com/KYVENetwork/dlt-sink/resolver"
	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/jmoiron/sqlx"
	"k8s.io/utils/clock"
)

// SetupLoader connects to the database, prepares the table and wires source and handler for the configured mode.
func SetupLoader(ctx context.Context, config *utils.Config) (*Loader, error) {
	columns, err := schema.ParseColumns(config.Sink.EffectiveColumns())
	if err != nil {
		return nil, err
	}

	db, err := destinations.OpenDB(ctx, config.Database)
	if err != nil {
		return nil, err
	}
	closers := []func(){func() { _ = db.Close() }}
	fail := func(err error) (*Loader, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		return nil, err
	}

	initializer := destinations.NewInitializer(db, config.Sink.TableName, schema.ColumnNames(columns))
	if err := initializer.Run(ctx, config.Sink.Initialize); err != nil {
		return fail(err)
	}

	var handler Handler
	switch config.Sink.Mode {
	case utils.ModeRow:
		mappings, err := resolver.BuildMappings(columns)
		if err != nil {
			return fail(err)
		}
		writer := destinations.NewPostgres(db, config.Sink.TableName, resolver.New(mappings))
		logger.Info().Str("statement", writer.Statement()).Msg("row mode")
		handler = NewRowHandler(writer)

	case utils.ModeBulk:
		bulk, err := newBulkLoader(ctx, config, schema.ColumnNames(columns))
		if err != nil {
			return fail(err)
		}
		closers = append(closers, bulk.close)

		var reporter ErrorReporter
		if config.Sink.ErrorTable != "" {
			errorTable, err := destinations.NewErrorTable(ctx, db, config.Sink.ErrorTable, config.Sink.TableName)
			if err != nil {
				return fail(err)
			}
			reporter = errorTable
		}

		logger.Info().Str("statement", bulk.copy.Statement()).Msg("bulk mode")
		handler = NewAggregator(bulk.copy, reporter, AggregatorConfig{
			BatchSize:    config.Sink.BatchSize,
			IdleTimeout:  config.Sink.IdleTimeout,
			ReapInterval: config.Sink.ReapInterval,
		}, clock.RealClock{})

	default:
		return fail(fmt.Errorf("sink mode not supported: %v", config.Sink.Mode))
	}

	source, err := collector.NewSource(config.Source, sourceDB(config, db))
	if err != nil {
		return fail(err)
	}

	loader := NewLoader(config.Sink.Mode, source, handler)
	loader.closers = closers
	return loader, nil
}

type bulkLoader struct {
	copy  *destinations.Copy
	close func()
}

func newBulkLoader(ctx context.Context, config *utils.Config, columns []string) (*bulkLoader, error) {
	options, err := schema.NewFormatOptions(config.Sink.Format, config.Sink.Delimiter, config.Sink.NullString, config.Sink.Quote, config.Sink.Escape)
	if err != nil {
		return nil, err
	}

	pool, err := destinations.OpenPool(ctx, config.Database)
	if err != nil {
		return nil, err
	}

	return &bulkLoader{
		copy:  destinations.NewCopy(destinations.NewPgxPool(pool), config.Sink.TableName, columns, options),
		close: pool.Close,
	}, nil
}

func sourceDB(config *utils.Config, db *sqlx.DB) *sqlx.DB {
	if config.Source.Type == "jdbc" {
		return db
	}
	return nil
}

// Statements renders the INSERT and COPY statements for the configured table and columns.
func Statements(config *utils.Config) (insert string, copyStatement string, err error) {
	columns, err := schema.ParseColumns(config.Sink.EffectiveColumns())
	if err != nil {
		return "", "", err
	}
	mappings, err := resolver.BuildMappings(columns)
	if err != nil {
		return "", "", err
	}
	options, err := schema.NewFormatOptions(config.Sink.Format, config.Sink.Delimiter, config.Sink.NullString, config.Sink.Quote, config.Sink.Escape)
	if err != nil {
		return "", "", err
	}
	return destinations.NewPostgres(nil, config.Sink.TableName, resolver.New(mappings)).Statement(),
		destinations.NewCopy(nil, config.Sink.TableName, schema.ColumnNames(columns), options).Statement(),
		nil
}
