package expression

import (
	"errors"
	"testing"

	"github.com/KYVENetwork/dlt-sink/jsonvalue"
	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(t *testing.T, source string, record schema.Record) (any, error) {
	t.Helper()
	e, err := Compile(source)
	require.NoError(t, err)
	assert.Equal(t, source, e.Source())
	return e.Evaluate(NewEnv(record))
}

func TestCompileError(t *testing.T) {
	_, err := Compile("payload.(")
	assert.Error(t, err)
}

func TestEvaluateJsonPayload(t *testing.T) {
	record := schema.NewRecord(`{"a": 1, "b": {"c": "x"}}`, nil)

	out, err := evaluate(t, "payload.a", record)
	require.NoError(t, err)
	assert.Equal(t, jsonvalue.NumberValue("1"), out)

	out, err = evaluate(t, "payload.b.c", record)
	require.NoError(t, err)
	assert.Equal(t, jsonvalue.StringValue("x"), out)
}

func TestEvaluateKeepsReceivedPayload(t *testing.T) {
	record := schema.NewRecord(`[ {"a": "x"}, 2 ]`, nil)

	out, err := evaluate(t, "payload", record)
	require.NoError(t, err)
	assert.Equal(t, `[ {"a": "x"}, 2 ]`, out)

	out, err = evaluate(t, "str(payload)", record)
	require.NoError(t, err)
	assert.Equal(t, `[ {"a": "x"}, 2 ]`, out)

	out, err = evaluate(t, "payload[0].a", record)
	require.NoError(t, err)
	assert.Equal(t, jsonvalue.StringValue("x"), out)

	out, err = evaluate(t, `payload[1]`, record)
	require.NoError(t, err)
	assert.Equal(t, jsonvalue.NumberValue("2"), out)
}

func TestEvaluateMissingKey(t *testing.T) {
	record := schema.NewRecord(map[string]any{"a": 1}, nil)

	_, err := evaluate(t, "payload.b", record)
	assert.True(t, errors.Is(err, ErrNoValue))
}

func TestEvaluateRuntimeError(t *testing.T) {
	record := schema.NewRecord(42, nil)

	_, err := evaluate(t, "payload.a.b", record)
	assert.Error(t, err)
}

func TestEvaluateHeadersAndId(t *testing.T) {
	record := schema.NewRecord("x", map[string]any{"source": "nats"})

	out, err := evaluate(t, "headers.source", record)
	require.NoError(t, err)
	assert.Equal(t, "nats", out)

	out, err = evaluate(t, "id", record)
	require.NoError(t, err)
	assert.Equal(t, record.ID, out)
}

func TestStr(t *testing.T) {
	out, err := evaluate(t, "str(payload)", schema.NewRecord("hello", nil))
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	out, err = evaluate(t, "str(payload)", schema.NewRecord([]byte(`{"a":[1,true]}`), nil))
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,true]}`, out)

	out, err = evaluate(t, "str(payload.a)", schema.NewRecord(`{"a":"b"}`, nil))
	require.NoError(t, err)
	assert.Equal(t, "b", out)

	out, err = evaluate(t, "str(payload)", schema.NewRecord(map[string]any{"a": 1}, nil))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	out, err = evaluate(t, "str(payload)", schema.NewRecord(12, nil))
	require.NoError(t, err)
	assert.Equal(t, "12", out)
}
