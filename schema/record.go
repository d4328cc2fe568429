package schema

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var ErrNotLineRepresentable = errors.New("payload is not representable as a line of text")

// Record is one unit of ingested data. It is never mutated after NewRecord.
type Record struct {
	ID         string
	Payload    any
	Headers    map[string]any
	ReceivedAt time.Time
}

func NewRecord(payload any, headers map[string]any) Record {
	if headers == nil {
		headers = map[string]any{}
	}
	return Record{
		ID:         uuid.New().String(),
		Payload:    payload,
		Headers:    headers,
		ReceivedAt: time.Now(),
	}
}

// Kind classifies the runtime shape of the payload. Records of the same kind share a group.
func (r Record) Kind() string {
	return fmt.Sprintf("%T", r.Payload)
}

// Line renders the payload as a single line of text for COPY streaming.
func (r Record) Line() (string, error) {
	switch p := r.Payload.(type) {
	case string:
		return p, nil
	case []byte:
		return string(p), nil
	case json.RawMessage:
		return string(p), nil
	case fmt.Stringer:
		return p.String(), nil
	case int:
		return strconv.Itoa(p), nil
	case int32:
		return strconv.FormatInt(int64(p), 10), nil
	case int64:
		return strconv.FormatInt(p, 10), nil
	case uint:
		return strconv.FormatUint(uint64(p), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(p), 10), nil
	case uint64:
		return strconv.FormatUint(p, 10), nil
	case float32:
		return strconv.FormatFloat(float64(p), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(p), nil
	default:
		return "", fmt.Errorf("%w: record %s has payload of type %T", ErrNotLineRepresentable, r.ID, r.Payload)
	}
}
