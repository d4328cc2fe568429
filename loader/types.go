package loader

import (
	"context"
	"errors"
	"time"

	"github.com/KYVENetwork/dlt-sink/schema"
)

var ErrClosed = errors.New("handler is closed")

type Trigger string

const (
	TriggerCount    Trigger = "count"
	TriggerIdle     Trigger = "idle"
	TriggerShutdown Trigger = "shutdown"
)

// Handler accepts records from a source. Handle may be called concurrently.
type Handler interface {
	Start(ctx context.Context) error
	Handle(ctx context.Context, record schema.Record) error
	Close(ctx context.Context) error
}

// ErrorReporter receives failed bulk loads. *destinations.ErrorTable implements it.
type ErrorReporter interface {
	Report(ctx context.Context, cause error)
}

// Group is a buffer of records sharing a key. ID identifies one generation of the key.
type Group struct {
	ID             string
	Key            string
	Members        []schema.Record
	CreatedAt      time.Time
	LastActivityAt time.Time
}
