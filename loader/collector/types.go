package collector

import (
	"context"
	"fmt"

	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
)

var logger = utils.DltLogger("collector")

// Emit hands a record to the sink. It may be called from several goroutines.
type Emit func(ctx context.Context, record schema.Record) error

// Source produces records until ctx is cancelled or its input is exhausted.
type Source interface {
	Run(ctx context.Context, emit Emit) error
}

// NewSource builds the configured source. db is only used by the jdbc source.
func NewSource(config utils.Source, db *sqlx.DB) (Source, error) {
	switch config.Type {
	case "stdin":
		return NewStdinSource(config.PayloadFormat), nil
	case "file":
		if config.Path == "" {
			return nil, fmt.Errorf("source.path is required for the file source")
		}
		return NewFileSource(config.Path, config.PayloadFormat), nil
	case "nats":
		if config.Nats.Subject == "" {
			return nil, fmt.Errorf("source.nats.subject is required for the nats source")
		}
		return NewNatsSource(config.Nats, config.PayloadFormat), nil
	case "kafka":
		return NewKafkaSource(config.Kafka, config.PayloadFormat)
	case "jdbc":
		if config.Jdbc.Query == "" {
			return nil, fmt.Errorf("source.jdbc.query is required for the jdbc source")
		}
		if db == nil {
			return nil, fmt.Errorf("jdbc source requires a database connection")
		}
		return NewJdbcSource(db, config.Jdbc), nil
	default:
		return nil, fmt.Errorf("source type not supported: %v", config.Type)
	}
}

// decodePayload keeps text as string and json as raw bytes. data is copied.
func decodePayload(format string, data []byte) any {
	if format == "json" {
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return raw
	}
	return string(data)
}
