package logsource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/valyala/fastjson"
	"github.com/yairfalse/polmon/pkg/domain"
	"go.uber.org/zap"
)

const readBufferSize = 64 * 1024

// CancelCheckInterval is how many entries CollectContext reads between
// context checks
const CancelCheckInterval = 1024

// Stats counts what a Source has read so far
type Stats struct {
	Lines   int   // lines read, framing included
	Entries int   // records decoded
	Skipped int   // framing-only lines
	Bytes   int64 // bytes read after decompression
	Opens   int   // times the backing stream was opened
}

// Source is a lazy, single-pass sequence of log entries backed by a stream.
// It is not safe for concurrent use.
type Source struct {
	path        string
	compression Compression
	open        func() (io.ReadCloser, error)
	logger      *zap.Logger

	consumed bool
	stats    Stats
}

// Option configures a Source
type Option func(*Source)

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCompression overrides extension based compression detection
func WithCompression(c Compression) Option {
	return func(s *Source) {
		s.compression = c
	}
}

// New returns a Source reading path. The file is not opened until the
// sequence is first ranged over.
func New(path string, opts ...Option) *Source {
	s := &Source{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.open = func() (io.ReadCloser, error) {
		return openFile(s.path, s.compression)
	}
	return s
}

// NewFromReader returns a Source over an already open stream. name is used
// in errors only. The reader is closed when iteration ends.
func NewFromReader(name string, rc io.ReadCloser, opts ...Option) *Source {
	s := &Source{path: name, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	opened := false
	s.open = func() (io.ReadCloser, error) {
		if opened {
			return nil, fmt.Errorf("stream %s cannot be reopened", name)
		}
		opened = true
		return rc, nil
	}
	return s
}

// Path returns the backing file path or stream name
func (s *Source) Path() string { return s.path }

// Stats returns a copy of the read counters
func (s *Source) Stats() Stats { return s.stats }

// Consumed reports whether the sequence has already been ranged over
func (s *Source) Consumed() bool { return s.consumed }

// Reopen returns a fresh, unconsumed Source on the same file
func (s *Source) Reopen() *Source {
	return New(s.path, WithLogger(s.logger), WithCompression(s.compression))
}

// Entries returns the entry sequence. The second value of each pair is
// non-nil exactly once, on the final pair, when reading or decoding failed.
// Stopping the range early releases the backing stream.
func (s *Source) Entries() iter.Seq2[*domain.LogEntry, error] {
	return func(yield func(*domain.LogEntry, error) bool) {
		if s.consumed {
			return
		}
		s.consumed = true

		rc, err := s.open()
		if err != nil {
			yield(nil, err)
			return
		}
		s.stats.Opens++
		defer func() {
			if cerr := rc.Close(); cerr != nil {
				s.logger.Warn("Failed to close log stream", zap.String("path", s.path), zap.Error(cerr))
			}
		}()

		s.scan(rc, yield)
	}
}

func (s *Source) scan(r io.Reader, yield func(*domain.LogEntry, error) bool) {
	ctx := context.Background()
	m := getMetrics(s.logger)
	br := bufio.NewReaderSize(r, readBufferSize)
	var p fastjson.Parser

	for {
		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 {
			s.stats.Lines++
			s.stats.Bytes += int64(len(line))

			entry, err := decodeLine(&p, line, s.stats.Lines)
			if err != nil {
				var de *domain.DecodeError
				if errors.As(err, &de) {
					de.Path = s.path
				}
				add(ctx, m.decodeErrors, 1)
				s.logger.Debug("Undecodable log record",
					zap.String("path", s.path),
					zap.Int("line", s.stats.Lines),
					zap.Error(err))
				yield(nil, err)
				return
			}

			if entry == nil {
				s.stats.Skipped++
				add(ctx, m.linesSkipped, 1)
			} else {
				s.stats.Entries++
				add(ctx, m.entriesDecoded, 1)
				if !yield(entry, nil) {
					return
				}
			}
		}

		if readErr != nil {
			if readErr != io.EOF {
				yield(nil, fmt.Errorf("failed to read %s at line %d: %w", s.path, s.stats.Lines+1, readErr))
			}
			return
		}
	}
}

// Collect drains a sequence into a slice, stopping at the first error.
// Entries read before the error are returned along with it.
func Collect(seq iter.Seq2[*domain.LogEntry, error]) ([]*domain.LogEntry, error) {
	return CollectContext(context.Background(), seq)
}

// CollectContext is Collect that stops once ctx is done. The context is
// checked every CancelCheckInterval entries and after the last one.
func CollectContext(ctx context.Context, seq iter.Seq2[*domain.LogEntry, error]) ([]*domain.LogEntry, error) {
	var out []*domain.LogEntry
	for entry, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, entry)
		if len(out)%CancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}
	}
	return out, ctx.Err()
}
