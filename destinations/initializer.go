package destinations

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/statement"
)

// Initializer prepares the destination table before records are written.
type Initializer struct {
	db        DB
	tableName string
	columns   []string
}

func NewInitializer(db DB, tableName string, columns []string) *Initializer {
	return &Initializer{db: db, tableName: tableName, columns: columns}
}

// Script resolves the initialize setting: "false" yields no script, "true" the default DDL,
// anything else is read as the path of an SQL script.
func (i *Initializer) Script(initialize string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(initialize)) {
	case "", "false":
		return "", nil
	case "true":
		return schema.DefaultInitScript(i.tableName, i.columns), nil
	}
	data, err := os.ReadFile(initialize)
	if err != nil {
		return "", fmt.Errorf("failed to read init script %s: %w", initialize, err)
	}
	return string(data), nil
}

// Run executes the initialization script. Failed DROP statements are ignored.
func (i *Initializer) Run(ctx context.Context, initialize string) error {
	script, err := i.Script(initialize)
	if err != nil {
		return err
	}
	if script == "" {
		return nil
	}

	for _, stmt := range statement.SplitScript(script) {
		if _, err := i.db.ExecContext(ctx, stmt); err != nil {
			if strings.HasPrefix(strings.ToUpper(stmt), "DROP") {
				logger.Info().Str("statement", stmt).Str("err", err.Error()).Msg("ignoring failed drop")
				continue
			}
			return fmt.Errorf("failed to initialize table %s: %w", i.tableName, err)
		}
		logger.Debug().Str("statement", stmt).Msg("executed init statement")
	}
	logger.Info().Str("table", i.tableName).Msg("initialized table")
	return nil
}
