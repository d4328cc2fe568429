package collector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/go-co-op/gocron/v2"
	"github.com/jmoiron/sqlx"
)

// PollDB is the subset of *sqlx.DB used by the jdbc source.
type PollDB interface {
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// JdbcSource polls a query and emits its rows. The optional update statement runs once
// per emitted row with the row's columns as named parameters.
type JdbcSource struct {
	db     PollDB
	config utils.Jdbc
}

func NewJdbcSource(db PollDB, config utils.Jdbc) *JdbcSource {
	return &JdbcSource{db: db, config: config}
}

func (s *JdbcSource) Run(ctx context.Context, emit Emit) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.config.PollInterval),
		gocron.NewTask(func() {
			n, err := s.Poll(ctx, emit)
			if err != nil {
				logger.Error().Str("err", err.Error()).Msg("poll failed")
				return
			}
			if n > 0 {
				logger.Debug().Int("rows", n).Msg("polled rows")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule poll: %w", err)
	}

	scheduler.Start()
	logger.Info().Str("interval", s.config.PollInterval.String()).Msg("polling query")

	<-ctx.Done()
	return scheduler.Shutdown()
}

// Poll runs the query once and emits the result. It returns the number of rows read.
func (s *JdbcSource) Poll(ctx context.Context, emit Emit) (int, error) {
	rows, err := s.query(ctx)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows), s.publish(ctx, rows, emit)
}

func (s *JdbcSource) query(ctx context.Context) ([]map[string]any, error) {
	rows, err := s.db.QueryxContext(ctx, s.config.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to run poll query: %w", err)
	}
	defer rows.Close()

	var result []map[string]any
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, normalizeRow(row))
		if s.config.MaxRows > 0 && len(result) >= s.config.MaxRows {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return result, nil
}

func (s *JdbcSource) publish(ctx context.Context, rows []map[string]any, emit Emit) error {
	if s.config.Split {
		for _, row := range rows {
			if err := emit(ctx, schema.NewRecord(row, nil)); err != nil {
				return err
			}
			if err := s.update(ctx, row); err != nil {
				return err
			}
		}
		return nil
	}

	if err := emit(ctx, schema.NewRecord(rows, nil)); err != nil {
		return err
	}
	for _, row := range rows {
		if err := s.update(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

func (s *JdbcSource) update(ctx context.Context, row map[string]any) error {
	if s.config.Update == "" {
		return nil
	}
	if _, err := s.db.NamedExecContext(ctx, s.config.Update, row); err != nil {
		return fmt.Errorf("failed to run poll update: %w", err)
	}
	return nil
}

// normalizeRow turns driver byte slices into strings so rows resolve like JSON objects.
func normalizeRow(row map[string]any) map[string]any {
	for key, value := range row {
		if b, ok := value.([]byte); ok {
			row[key] = string(b)
		}
	}
	return row
}
