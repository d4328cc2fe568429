package jsonvalue

import (
	"strconv"

	"github.com/goccy/go-json"
)

type Kind int

const (
	Null Kind = iota
	Number
	Bool
	String
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return "null"
	}
}

// Value is a JSON scalar. Objects and arrays are represented as map[string]any and []any holding Values.
type Value struct {
	kind    Kind
	number  json.Number
	boolean bool
	text    string
}

func NullValue() Value {
	return Value{kind: Null}
}

func NumberValue(n json.Number) Value {
	return Value{kind: Number, number: n}
}

func BoolValue(b bool) Value {
	return Value{kind: Bool, boolean: b}
}

func StringValue(s string) Value {
	return Value{kind: String, text: s}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Native converts the scalar into a plain Go value. Integral numbers become int64, all others float64.
func (v Value) Native() any {
	switch v.kind {
	case Number:
		if i, err := v.number.Int64(); err == nil {
			return i
		}
		if f, err := v.number.Float64(); err == nil {
			return f
		}
		return v.number.String()
	case Bool:
		return v.boolean
	case String:
		return v.text
	default:
		return nil
	}
}

// String renders the JSON text form of the scalar.
func (v Value) String() string {
	switch v.kind {
	case Number:
		return v.number.String()
	case Bool:
		return strconv.FormatBool(v.boolean)
	case String:
		return strconv.Quote(v.text)
	default:
		return "null"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == String {
		return json.Marshal(v.text)
	}
	return []byte(v.String()), nil
}
