package collector

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	records []schema.Record
	err     error
}

func (r *recorder) emit(_ context.Context, record schema.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

func (r *recorder) payloads() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record.Payload)
	}
	return out
}

func TestReaderSourceText(t *testing.T) {
	rec := &recorder{}
	source := NewReaderSource("test", strings.NewReader("a\n\nb\nc"), "text")

	require.NoError(t, source.Run(context.Background(), rec.emit))
	assert.Equal(t, []any{"a", "b", "c"}, rec.payloads())
}

func TestReaderSourceJson(t *testing.T) {
	rec := &recorder{}
	source := NewReaderSource("test", strings.NewReader("{\"a\":1}\n[2]\n"), "json")

	require.NoError(t, source.Run(context.Background(), rec.emit))
	assert.Equal(t, []any{json.RawMessage(`{"a":1}`), json.RawMessage(`[2]`)}, rec.payloads())
}

func TestReaderSourceEmitError(t *testing.T) {
	rec := &recorder{err: errors.New("closed")}
	source := NewReaderSource("test", strings.NewReader("a\nb\n"), "text")

	assert.ErrorContains(t, source.Run(context.Background(), rec.emit), "closed")
}

func TestReaderSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	defer writer.Close()

	rec := &recorder{}
	assert.NoError(t, NewReaderSource("pipe", reader, "text").Run(ctx, rec.emit))
	assert.Empty(t, rec.payloads())
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\ny\n"), 0o644))

	rec := &recorder{}
	require.NoError(t, NewFileSource(path, "text").Run(context.Background(), rec.emit))
	assert.Equal(t, []any{"x", "y"}, rec.payloads())

	err := NewFileSource(filepath.Join(t.TempDir(), "missing"), "text").Run(context.Background(), rec.emit)
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	source, err := NewSource(utils.Source{Type: "stdin", PayloadFormat: "text"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LinesSource{}, source)

	_, err = NewSource(utils.Source{Type: "file"}, nil)
	assert.Error(t, err)

	_, err = NewSource(utils.Source{Type: "nats"}, nil)
	assert.Error(t, err)

	_, err = NewSource(utils.Source{Type: "kafka", Kafka: utils.Kafka{Brokers: []string{"localhost:9092"}}}, nil)
	assert.Error(t, err)

	_, err = NewSource(utils.Source{Type: "jdbc", Jdbc: utils.Jdbc{Query: "SELECT 1"}}, nil)
	assert.Error(t, err)

	_, err = NewSource(utils.Source{Type: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}

type fakePollDB struct {
	mu      sync.Mutex
	updates []interface{}
}

func (f *fakePollDB) QueryxContext(context.Context, string, ...interface{}) (*sqlx.Rows, error) {
	return nil, errors.New("not supported")
}

func (f *fakePollDB) NamedExecContext(_ context.Context, _ string, arg interface{}) (sql.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, arg)
	return nil, nil
}

func TestJdbcPublishSplit(t *testing.T) {
	db := &fakePollDB{}
	source := NewJdbcSource(db, utils.Jdbc{Update: "UPDATE t SET done = true WHERE id = :id", Split: true})
	rows := []map[string]any{{"id": 1}, {"id": 2}}

	rec := &recorder{}
	require.NoError(t, source.publish(context.Background(), rows, rec.emit))
	assert.Equal(t, []any{map[string]any{"id": 1}, map[string]any{"id": 2}}, rec.payloads())
	assert.Equal(t, []interface{}{map[string]any{"id": 1}, map[string]any{"id": 2}}, db.updates)
}

func TestJdbcPublishWhole(t *testing.T) {
	db := &fakePollDB{}
	source := NewJdbcSource(db, utils.Jdbc{Split: false})
	rows := []map[string]any{{"id": 1}, {"id": 2}}

	rec := &recorder{}
	require.NoError(t, source.publish(context.Background(), rows, rec.emit))
	assert.Equal(t, []any{rows}, rec.payloads())
	assert.Empty(t, db.updates)
}

func TestJdbcPollQueryError(t *testing.T) {
	source := NewJdbcSource(&fakePollDB{}, utils.Jdbc{Query: "SELECT 1"})
	_, err := source.Poll(context.Background(), (&recorder{}).emit)
	assert.ErrorContains(t, err, "not supported")
}

func TestNormalizeRow(t *testing.T) {
	assert.Equal(t, map[string]any{"a": "x", "b": int64(1)}, normalizeRow(map[string]any{"a": []byte("x"), "b": int64(1)}))
}
