package destinations

import (
	"context"
	"fmt"

	"github.com/KYVENetwork/dlt-sink/resolver"
	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/statement"
)

// Postgres writes one row per record with a named-parameter INSERT.
type Postgres struct {
	db        DB
	resolver  *resolver.Resolver
	statement string
}

func NewPostgres(db DB, tableName string, r *resolver.Resolver) *Postgres {
	return &Postgres{
		db:        db,
		resolver:  r,
		statement: statement.Insert(tableName, r.Columns()),
	}
}

func (p *Postgres) Statement() string {
	return p.statement
}

func (p *Postgres) Write(ctx context.Context, record schema.Record) (int64, error) {
	params := p.resolver.Resolve(record)

	result, err := p.db.NamedExecContext(ctx, p.statement, params.Map())
	if err != nil {
		return 0, fmt.Errorf("failed to insert record %s: %w", record.ID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	logger.Debug().Str("record", record.ID).Int64("rows", rows).Msg("inserted record")
	return rows, nil
}
