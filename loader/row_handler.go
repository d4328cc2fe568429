package loader

import (
	"context"
	"sync"

	"github.com/KYVENetwork/dlt-sink/destinations"
	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
)

// RowHandler writes every record as soon as it arrives.
type RowHandler struct {
	mu     sync.RWMutex
	closed bool
	writer destinations.RowWriter
}

func NewRowHandler(writer destinations.RowWriter) *RowHandler {
	return &RowHandler{writer: writer}
}

func (h *RowHandler) Start(context.Context) error {
	return nil
}

func (h *RowHandler) Handle(ctx context.Context, record schema.Record) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrClosed
	}
	utils.PrometheusRecordsReceived.WithLabelValues(utils.ModeRow).Inc()

	rows, err := h.writer.Write(context.WithoutCancel(ctx), record)
	if err != nil {
		return err
	}
	utils.PrometheusRowsWritten.WithLabelValues(utils.ModeRow).Add(float64(rows))
	return nil
}

func (h *RowHandler) Close(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}
