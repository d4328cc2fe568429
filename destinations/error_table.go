package destinations

import (
	"context"
	"fmt"
)

// ErrorTable records failed loads as (table_name, error_message) rows.
type ErrorTable struct {
	db        DB
	name      string
	tableName string
	insert    string
}

// NewErrorTable validates that the error table exists with the expected columns.
func NewErrorTable(ctx context.Context, db DB, name, tableName string) (*ErrorTable, error) {
	if _, err := db.ExecContext(ctx, fmt.Sprintf("SELECT table_name, error_message FROM %s WHERE 1 = 0", name)); err != nil {
		return nil, fmt.Errorf("invalid error table specified: %w", err)
	}
	return &ErrorTable{
		db:        db,
		name:      name,
		tableName: tableName,
		insert:    fmt.Sprintf("INSERT INTO %s(table_name, error_message) VALUES (:table_name, :error_message)", name),
	}, nil
}

// Report inserts one row for the failure. Insert errors are logged only.
func (e *ErrorTable) Report(ctx context.Context, cause error) {
	if e == nil || cause == nil {
		return
	}
	_, err := e.db.NamedExecContext(ctx, e.insert, map[string]any{
		"table_name":    e.tableName,
		"error_message": cause.Error(),
	})
	if err != nil {
		logger.Error().Str("table", e.name).Str("err", err.Error()).Msg("failed to write error table entry")
	}
}
