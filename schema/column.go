package schema

import (
	"fmt"
	"strings"
)

// Column is a destination column and the expression its value is derived from.
type Column struct {
	Name       string
	Expression string
}

// ParseColumns parses "name" and "name:expression" entries. A bare name is its own expression.
func ParseColumns(specs []string) ([]Column, error) {
	columns := make([]Column, 0, len(specs))
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		name, expression, found := strings.Cut(spec, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid column %q: missing name", spec)
		}
		expression = strings.TrimSpace(expression)
		if !found || expression == "" {
			expression = name
		}
		columns = append(columns, Column{Name: name, Expression: expression})
	}
	return columns, nil
}

// ColumnNames returns the distinct column names in first-seen order.
func ColumnNames(columns []Column) []string {
	seen := make(map[string]struct{}, len(columns))
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		names = append(names, c.Name)
	}
	return names
}
