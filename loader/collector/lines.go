package collector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KYVENetwork/dlt-sink/schema"
)

const maxLineSize = 16 * 1024 * 1024

// LinesSource emits one record per non-empty line of a reader.
type LinesSource struct {
	name   string
	open   func() (io.ReadCloser, error)
	format string
}

func NewStdinSource(format string) *LinesSource {
	return &LinesSource{
		name: "stdin",
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(os.Stdin), nil
		},
		format: format,
	}
}

func NewFileSource(path, format string) *LinesSource {
	return &LinesSource{
		name: path,
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
		format: format,
	}
}

func NewReaderSource(name string, r io.Reader, format string) *LinesSource {
	return &LinesSource{
		name: name,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
		format: format,
	}
}

func (s *LinesSource) Run(ctx context.Context, emit Emit) error {
	reader, err := s.open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.name, err)
	}
	defer reader.Close()

	lines := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(reader)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			buf := make([]byte, len(line))
			copy(buf, line)
			select {
			case lines <- buf:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()

	logger.Info().Str("source", s.name).Msg("reading lines")

	count := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info().Str("source", s.name).Int("records", count).Msg("stopped reading")
			return nil
		case line, ok := <-lines:
			if !ok {
				err := <-errc
				if err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("failed to read %s: %w", s.name, err)
				}
				logger.Info().Str("source", s.name).Int("records", count).Msg("reached end of input")
				return nil
			}
			if err := emit(ctx, schema.NewRecord(decodePayload(s.format, line), nil)); err != nil {
				return err
			}
			count++
		}
	}
}
