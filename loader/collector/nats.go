package collector

import (
	"context"
	"fmt"

	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/nats-io/nats.go"
)

// NatsSource emits one record per message received on a subject.
type NatsSource struct {
	config utils.NatsSource
	format string
}

func NewNatsSource(config utils.NatsSource, format string) *NatsSource {
	return &NatsSource{config: config, format: format}
}

func (s *NatsSource) Run(ctx context.Context, emit Emit) error {
	closed := make(chan struct{})
	conn, err := nats.Connect(s.config.URL,
		nats.Name("dlt-sink"),
		nats.MaxReconnects(-1),
		nats.ClosedHandler(func(*nats.Conn) { close(closed) }),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to nats %s: %w", s.config.URL, err)
	}

	handler := func(msg *nats.Msg) {
		record := s.toRecord(msg)
		if err := emit(ctx, record); err != nil {
			logger.Error().Str("record", record.ID).Str("subject", msg.Subject).Str("err", err.Error()).Msg("failed to emit message")
		}
	}

	if s.config.Queue != "" {
		_, err = conn.QueueSubscribe(s.config.Subject, s.config.Queue, handler)
	} else {
		_, err = conn.Subscribe(s.config.Subject, handler)
	}
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", s.config.Subject, err)
	}

	logger.Info().Str("subject", s.config.Subject).Str("queue", s.config.Queue).Msg("subscribed to nats")

	<-ctx.Done()

	// Drain lets pending callbacks finish before the connection closes.
	if err := conn.Drain(); err != nil {
		conn.Close()
	}
	<-closed
	return nil
}

func (s *NatsSource) toRecord(msg *nats.Msg) schema.Record {
	headers := map[string]any{"nats_subject": msg.Subject}
	for key, values := range msg.Header {
		if len(values) == 1 {
			headers[key] = values[0]
		} else {
			headers[key] = values
		}
	}
	return schema.NewRecord(decodePayload(s.format, msg.Data), headers)
}
