package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/KYVENetwork/dlt-sink/loader/collector"
	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/hashicorp/go-multierror"
)

var (
	logger = utils.DltLogger("loader")
)

// Loader runs a source and hands every record to the handler of the configured mode.
type Loader struct {
	mode    string
	source  collector.Source
	handler Handler
	closers []func()
}

func NewLoader(mode string, source collector.Source, handler Handler) *Loader {
	return &Loader{
		mode:    mode,
		source:  source,
		handler: handler,
	}
}

// Start blocks until the source stops, then closes the handler, draining buffered records.
func (loader *Loader) Start(ctx context.Context) error {
	defer loader.release()

	if err := loader.handler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start handler: %w", err)
	}

	logger.Info().Str("mode", loader.mode).Msg("starting sink")

	sourceErr := loader.source.Run(ctx, loader.dispatch)
	if sourceErr != nil && !errors.Is(sourceErr, context.Canceled) {
		logger.Error().Str("err", sourceErr.Error()).Msg("source stopped")
	} else {
		sourceErr = nil
	}

	closeErr := loader.handler.Close(context.WithoutCancel(ctx))
	if closeErr != nil {
		logger.Error().Str("err", closeErr.Error()).Msg("failed to drain handler")
	}

	logger.Info().Msg("sink stopped")
	return multierror.Append(sourceErr, closeErr).ErrorOrNil()
}

func (loader *Loader) dispatch(ctx context.Context, record schema.Record) error {
	err := loader.handler.Handle(ctx, record)
	if err == nil {
		return nil
	}

	utils.PrometheusRecordsFailed.WithLabelValues(loader.mode).Inc()
	logger.Error().Str("record", record.ID).Str("err", err.Error()).Msg("failed to handle record")
	if errors.Is(err, ErrClosed) {
		return err
	}
	return nil
}

func (loader *Loader) release() {
	for i := len(loader.closers) - 1; i >= 0; i-- {
		loader.closers[i]()
	}
}
