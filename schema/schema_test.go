package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct{ x, y int }

type label string

func (l label) String() string { return "label:" + string(l) }

func TestNewRecord(t *testing.T) {
	before := time.Now()
	a := NewRecord("x", nil)
	b := NewRecord("x", nil)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotNil(t, a.Headers)
	assert.False(t, a.ReceivedAt.Before(before))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "string", NewRecord("x", nil).Kind())
	assert.Equal(t, "[]uint8", NewRecord([]byte("x"), nil).Kind())
	assert.Equal(t, "map[string]interface {}", NewRecord(map[string]any{}, nil).Kind())
	assert.Equal(t, NewRecord("a", nil).Kind(), NewRecord("b", nil).Kind())
}

func TestLine(t *testing.T) {
	tests := map[string]struct {
		payload  any
		expected string
	}{
		"string":   {payload: "a,b", expected: "a,b"},
		"bytes":    {payload: []byte("raw"), expected: "raw"},
		"json":     {payload: json.RawMessage(`{"a":1}`), expected: `{"a":1}`},
		"stringer": {payload: label("x"), expected: "label:x"},
		"int":      {payload: 42, expected: "42"},
		"float":    {payload: 1.25, expected: "1.25"},
		"bool":     {payload: true, expected: "true"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			line, err := NewRecord(tc.payload, nil).Line()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, line)
		})
	}
}

func TestLineUnsupported(t *testing.T) {
	_, err := NewRecord(point{1, 2}, nil).Line()
	assert.True(t, errors.Is(err, ErrNotLineRepresentable))

	_, err = NewRecord(nil, nil).Line()
	assert.True(t, errors.Is(err, ErrNotLineRepresentable))
}

func TestParseColumns(t *testing.T) {
	columns, err := ParseColumns([]string{"a", " b : payload.b ", "c:", "d:str(payload.x)"})
	require.NoError(t, err)
	assert.Equal(t, []Column{
		{Name: "a", Expression: "a"},
		{Name: "b", Expression: "payload.b"},
		{Name: "c", Expression: "c"},
		{Name: "d", Expression: "str(payload.x)"},
	}, columns)

	_, err = ParseColumns([]string{":payload"})
	assert.Error(t, err)
}

func TestColumnNames(t *testing.T) {
	columns, err := ParseColumns([]string{"a", "b", "a:payload.z"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ColumnNames(columns))
}

func TestNewFormatOptions(t *testing.T) {
	quote := "'"
	options, err := NewFormatOptions("csv", nil, nil, &quote, nil)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, options.Format)
	require.NotNil(t, options.Quote)
	assert.Equal(t, '\'', *options.Quote)
	assert.Nil(t, options.Escape)

	quote = "x"
	assert.Equal(t, '\'', *options.Quote)

	_, err = NewFormatOptions("json", nil, nil, nil, nil)
	assert.Error(t, err)

	long := "ab"
	_, err = NewFormatOptions("TEXT", nil, nil, nil, &long)
	assert.Error(t, err)
}
