package statement

import (
	"fmt"
	"strings"

	"github.com/KYVENetwork/dlt-sink/schema"
)

// Insert renders a parameterized INSERT with one named parameter per column.
func Insert(table string, columns []string) string {
	placeholders := make([]string, 0, len(columns))
	for _, c := range columns {
		placeholders = append(placeholders, ":"+c)
	}
	return fmt.Sprintf("INSERT INTO %s(%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}

// Copy renders a COPY ... FROM STDIN statement. Options are emitted in a fixed order and omitted when unset.
func Copy(table string, columns []string, options schema.FormatOptions) string {
	var b strings.Builder
	b.WriteString("COPY ")
	b.WriteString(table)
	if len(columns) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(columns, ","))
		b.WriteString(")")
	}
	b.WriteString(" FROM STDIN")

	var with []string
	if options.Format == schema.FormatCSV {
		with = append(with, "CSV")
	}
	if options.Delimiter != nil {
		prefix := ""
		if strings.HasPrefix(*options.Delimiter, `\`) {
			prefix = "E"
		}
		with = append(with, fmt.Sprintf("DELIMITER %s'%s'", prefix, *options.Delimiter))
	}
	if options.NullString != nil {
		with = append(with, fmt.Sprintf("NULL '%s'", *options.NullString))
	}
	if options.Quote != nil {
		with = append(with, fmt.Sprintf("QUOTE '%s'", quoteChar(*options.Quote)))
	}
	if options.Escape != nil {
		with = append(with, fmt.Sprintf("ESCAPE '%s'", quoteChar(*options.Escape)))
	}
	if len(with) > 0 {
		b.WriteString(" WITH ")
		b.WriteString(strings.Join(with, " "))
	}
	return b.String()
}

func quoteChar(r rune) string {
	if r == '\'' {
		return "''"
	}
	return string(r)
}
