package jsonvalue

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNative(t *testing.T) {
	tests := map[string]struct {
		value    Value
		expected any
	}{
		"null":     {value: NullValue(), expected: nil},
		"integer":  {value: NumberValue("42"), expected: int64(42)},
		"negative": {value: NumberValue("-7"), expected: int64(-7)},
		"float":    {value: NumberValue("1.5"), expected: 1.5},
		"exponent": {value: NumberValue("1e3"), expected: float64(1000)},
		"bool":     {value: BoolValue(true), expected: true},
		"string":   {value: StringValue("x"), expected: "x"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.value.Native())
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "null", NullValue().String())
	assert.Equal(t, "3.25", NumberValue("3.25").String())
	assert.Equal(t, "false", BoolValue(false).String())
	assert.Equal(t, `"a\"b"`, StringValue(`a"b`).String())
}

func TestParse(t *testing.T) {
	view, err := Parse([]byte(`{"a": 1, "b": [true, null], "c": {"d": "e"}}`))
	require.NoError(t, err)

	doc, ok := view.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, NumberValue("1"), doc["a"])
	assert.Equal(t, []any{BoolValue(true), NullValue()}, doc["b"])
	assert.Equal(t, map[string]any{"d": StringValue("e")}, doc["c"])
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestView(t *testing.T) {
	t.Run("json text", func(t *testing.T) {
		view := View(`{"a": "b"}`)
		assert.Equal(t, map[string]any{"a": StringValue("b")}, view)
	})
	t.Run("raw message", func(t *testing.T) {
		view := View(json.RawMessage(`[1, 2]`))
		assert.Equal(t, []any{NumberValue("1"), NumberValue("2")}, view)
	})
	t.Run("plain text", func(t *testing.T) {
		assert.Equal(t, "hello", View("hello"))
	})
	t.Run("broken json", func(t *testing.T) {
		assert.Equal(t, "{oops", View("{oops"))
	})
	t.Run("structured payload", func(t *testing.T) {
		payload := map[string]any{"a": 1}
		assert.Equal(t, payload, View(payload))
	})
}

func TestMarshalNested(t *testing.T) {
	view, err := Parse([]byte(`{"a":[1,"x",null]}`))
	require.NoError(t, err)

	out, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":[1,"x",null]}`, string(out))
}
