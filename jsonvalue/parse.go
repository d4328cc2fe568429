package jsonvalue

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Parse decodes a JSON document. Objects become map[string]any, arrays []any and scalars Value.
func Parse(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	return wrap(raw), nil
}

func wrap(raw any) any {
	switch v := raw.(type) {
	case map[string]any:
		for key, child := range v {
			v[key] = wrap(child)
		}
		return v
	case []any:
		for i, child := range v {
			v[i] = wrap(child)
		}
		return v
	case json.Number:
		return NumberValue(v)
	case bool:
		return BoolValue(v)
	case string:
		return StringValue(v)
	default:
		return NullValue()
	}
}

// View returns the parsed document for payloads holding JSON object or array text, and the payload itself otherwise.
func View(payload any) any {
	var data []byte
	switch p := payload.(type) {
	case json.RawMessage:
		data = p
	case []byte:
		data = p
	case string:
		data = []byte(p)
	default:
		return payload
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return payload
	}
	view, err := Parse(trimmed)
	if err != nil {
		return payload
	}
	return view
}
