package schema

import (
	"fmt"
	"strings"
)

// DefaultInitScript drops the table and recreates it with one VARCHAR(2000) column per name.
func DefaultInitScript(table string, columns []string) string {
	definitions := make([]string, 0, len(columns))
	for _, c := range columns {
		definitions = append(definitions, fmt.Sprintf("%s VARCHAR(2000)", c))
	}
	return fmt.Sprintf("DROP TABLE %s;\nCREATE TABLE %s (%s);\n", table, table, strings.Join(definitions, ", "))
}
