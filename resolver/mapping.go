package resolver

import (
	"fmt"
	"strings"

	"github.com/KYVENetwork/dlt-sink/expression"
	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
)

var logger = utils.DltLogger("resolver")

// ColumnMapping holds the fallback expressions of one destination column, in evaluation order.
type ColumnMapping struct {
	Name        string
	Expressions []expression.Expression
}

// BuildMappings compiles the column expressions. Columns not starting with "payload" get a
// payload-qualified fallback. Repeated names collapse into the mapping of their first occurrence.
func BuildMappings(columns []schema.Column) ([]ColumnMapping, error) {
	mappings := make([]ColumnMapping, 0, len(columns))
	index := make(map[string]int, len(columns))

	for _, column := range columns {
		primary, err := expression.Compile(column.Expression)
		if err != nil {
			return nil, fmt.Errorf("invalid expression for column %s: %w", column.Name, err)
		}
		expressions := []expression.Expression{primary}

		if !strings.HasPrefix(column.Expression, "payload") {
			qualified, err := expression.Compile("payload." + column.Expression)
			if err != nil {
				logger.Info().Str("column", column.Name).Str("err", err.Error()).Msg("dropping payload-qualified variant")
			} else {
				expressions = append(expressions, qualified)
			}
		}

		if i, ok := index[column.Name]; ok {
			mappings[i].Expressions = append(mappings[i].Expressions, expressions...)
			continue
		}
		index[column.Name] = len(mappings)
		mappings = append(mappings, ColumnMapping{Name: column.Name, Expressions: expressions})
	}
	return mappings, nil
}

func Names(mappings []ColumnMapping) []string {
	names := make([]string, 0, len(mappings))
	for _, m := range mappings {
		names = append(names, m.Name)
	}
	return names
}
