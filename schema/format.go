package schema

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Format string

const (
	FormatText Format = "TEXT"
	FormatCSV  Format = "CSV"
)

// FormatOptions configure the COPY statement. Unset options are nil.
type FormatOptions struct {
	Format     Format
	Delimiter  *string
	NullString *string
	Quote      *rune
	Escape     *rune
}

func NewFormatOptions(format string, delimiter, nullString, quote, escape *string) (FormatOptions, error) {
	options := FormatOptions{
		Delimiter:  copyString(delimiter),
		NullString: copyString(nullString),
	}

	switch Format(strings.ToUpper(strings.TrimSpace(format))) {
	case "", FormatText:
		options.Format = FormatText
	case FormatCSV:
		options.Format = FormatCSV
	default:
		return FormatOptions{}, fmt.Errorf("unsupported format %q", format)
	}

	var err error
	if options.Quote, err = singleRune("quote", quote); err != nil {
		return FormatOptions{}, err
	}
	if options.Escape, err = singleRune("escape", escape); err != nil {
		return FormatOptions{}, err
	}
	return options, nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func singleRune(option string, s *string) (*rune, error) {
	if s == nil {
		return nil, nil
	}
	if utf8.RuneCountInString(*s) != 1 {
		return nil, fmt.Errorf("%s must be a single character, got %q", option, *s)
	}
	r, _ := utf8.DecodeRuneInString(*s)
	return &r, nil
}
