package destinations

import (
	"context"
	"database/sql"

	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
)

var logger = utils.DltLogger("destinations")

// RowWriter persists a single record as one row.
type RowWriter interface {
	Write(ctx context.Context, record schema.Record) (int64, error)
}

// BulkLoader persists a batch of records in one operation.
type BulkLoader interface {
	Load(ctx context.Context, members []schema.Record) (int64, error)
}

// DB is the subset of *sqlx.DB used by the row path, the initializer and the error table.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}
