// Package group organizes a test run's log stream into a named group.
//
// A Group starts out lazy: its logs are a single-pass sequence read straight
// from the backing file. Materialize buffers the sequence in memory once, for
// callers that need more than one pass. InferTopology is the only operation
// that materializes on its own, since the inferrer scans the whole log.
//
// A Group is not safe for concurrent use. Distinct groups share nothing and
// can be processed in parallel.
package group

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/yairfalse/polmon/pkg/domain"
	"github.com/yairfalse/polmon/pkg/logsource"
	"go.uber.org/zap"
)

// InfraState tracks whether topology inference has run
type InfraState int

const (
	InfraNotComputed InfraState = iota
	InfraComputed
	InfraFailed
)

func (s InfraState) String() string {
	switch s {
	case InfraNotComputed:
		return "not_computed"
	case InfraComputed:
		return "computed"
	case InfraFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Group is a named log stream of one test run or production snapshot
type Group struct {
	name           string
	generation     *int
	jobURLTemplate string
	inferrer       domain.Inferrer
	logger         *zap.Logger
	sourceOpts     []logsource.Option
	source         *logsource.Source

	stream         iter.Seq2[*domain.LogEntry, error]
	entries        []*domain.LogEntry
	materialized   bool
	materializeErr error

	infraState InfraState
	infra      *domain.TopologySnapshot
	infraErr   error
}

// Option configures a Group
type Option func(*Group)

// WithGeneration sets the disambiguator appended by SafeName
func WithGeneration(generation int) Option {
	return func(g *Group) {
		g.generation = &generation
	}
}

// WithInferrer sets the topology inferrer used by InferTopology
func WithInferrer(inferrer domain.Inferrer) Option {
	return func(g *Group) {
		g.inferrer = inferrer
	}
}

// WithGlobalInfra supplies a known topology. InferTopology then returns it
// without consulting the inferrer.
func WithGlobalInfra(snapshot *domain.TopologySnapshot) Option {
	return func(g *Group) {
		if snapshot != nil {
			g.infra = snapshot
			g.infraState = InfraComputed
		}
	}
}

// WithJobURLTemplate overrides DefaultJobURLTemplate
func WithJobURLTemplate(template string) Option {
	return func(g *Group) {
		if template != "" {
			g.jobURLTemplate = template
		}
	}
}

// WithLogger sets the group logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *Group) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithSourceOptions passes options to the log source created by FromFile
func WithSourceOptions(opts ...logsource.Option) Option {
	return func(g *Group) {
		g.sourceOpts = append(g.sourceOpts, opts...)
	}
}

// New creates a lazy group over logs. A nil sequence is an empty log.
func New(name string, logs iter.Seq2[*domain.LogEntry, error], opts ...Option) *Group {
	g := &Group{
		name:           name,
		jobURLTemplate: DefaultJobURLTemplate,
		logger:         zap.NewNop(),
		stream:         logs,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.stream == nil {
		g.stream = func(func(*domain.LogEntry, error) bool) {}
	}
	return g
}

// NewFromEntries creates an already materialized group
func NewFromEntries(name string, entries []*domain.LogEntry, opts ...Option) *Group {
	g := New(name, nil, opts...)
	g.entries = slices.Clone(entries)
	g.materialized = true
	g.stream = nil
	return g
}

// Name returns the group name
func (g *Group) Name() string { return g.name }

// Generation returns the disambiguator, if any
func (g *Group) Generation() (int, bool) {
	if g.generation == nil {
		return 0, false
	}
	return *g.generation, true
}

// PotName returns the short test name derived from the group name
func (g *Group) PotName() string { return PotName(g.name) }

// JobReference returns the CI job id derived from the group name
func (g *Group) JobReference() (int64, bool) { return JobReference(g.name) }

// JobURL returns the CI job link, if the group has a job reference
func (g *Group) JobURL() (string, bool) {
	id, ok := g.JobReference()
	if !ok {
		return "", false
	}
	return JobURL(g.jobURLTemplate, id), true
}

// SafeName is Name with the generation appended, for naming artifacts that
// must not overwrite those of another group with the same name.
func (g *Group) SafeName() string {
	if g.generation == nil {
		return g.name
	}
	return fmt.Sprintf("%s%s%d", g.name, generationSep, *g.generation)
}

// String is the logging-friendly label of the group
func (g *Group) String() string {
	if url, ok := g.JobURL(); ok {
		return fmt.Sprintf("<Group name=%s url=%s>", g.name, url)
	}
	return fmt.Sprintf("<Group name=%s>", g.name)
}

// Source returns the backing log source of a file group, or nil
func (g *Group) Source() *logsource.Source { return g.source }

// Logs returns the log sequence without materializing it. Before
// materialization the sequence is single-pass.
func (g *Group) Logs() iter.Seq2[*domain.LogEntry, error] {
	if g.materialized {
		return g.replay(nil)
	}
	if g.materializeErr != nil {
		return g.replay(g.materializeErr)
	}
	return g.stream
}

func (g *Group) replay(tail error) iter.Seq2[*domain.LogEntry, error] {
	entries := g.entries
	return func(yield func(*domain.LogEntry, error) bool) {
		for _, entry := range entries {
			if !yield(entry, nil) {
				return
			}
		}
		if tail != nil {
			yield(nil, tail)
		}
	}
}

// Materialized reports whether the log has been fully buffered
func (g *Group) Materialized() bool { return g.materialized }

// Entries returns the buffered log, or nil before Materialize
func (g *Group) Entries() []*domain.LogEntry {
	if !g.materialized {
		return nil
	}
	return g.entries
}

// Buffered returns how many entries Materialize kept, including those read
// before a failed materialization
func (g *Group) Buffered() int { return len(g.entries) }

// Materialize buffers the whole log in memory. It reads the backing stream at
// most once: later calls return the first outcome without reading again.
func (g *Group) Materialize() error {
	return g.MaterializeContext(context.Background())
}

// MaterializeContext is Materialize that stops reading once ctx is done.
// A cancellation is cached like any other read failure, since the stream
// cannot be resumed.
func (g *Group) MaterializeContext(ctx context.Context) error {
	if g.materialized || g.materializeErr != nil {
		return g.materializeErr
	}

	entries, err := logsource.CollectContext(ctx, g.stream)
	g.stream = nil
	g.entries = entries
	if err != nil {
		g.materializeErr = fmt.Errorf("failed to materialize %s: %w", g, err)
		return g.materializeErr
	}

	g.materialized = true
	g.logger.Debug("Materialized group",
		zap.String("group", g.name),
		zap.Int("entries", len(entries)))
	return nil
}

// GlobalInfra returns the inferred or supplied topology, or nil
func (g *Group) GlobalInfra() *domain.TopologySnapshot { return g.infra }

// InfraState returns the topology state
func (g *Group) InfraState() InfraState { return g.infraState }

// InferTopology returns the group topology, running the inferrer on first
// use. It materializes the log as a side effect. An inferrer failure is
// cached and wraps domain.ErrInferenceFailed; the materialized log remains
// usable either way.
func (g *Group) InferTopology() (*domain.TopologySnapshot, error) {
	switch g.infraState {
	case InfraComputed:
		return g.infra, nil
	case InfraFailed:
		return nil, g.infraErr
	}

	if g.inferrer == nil {
		return nil, fmt.Errorf("%s: %w", g, domain.ErrNoInferrer)
	}

	g.logger.Info("Inferring global infra; log stream will be fully loaded into memory",
		zap.Stringer("group", g),
		zap.String("inferrer", g.inferrer.Name()))

	if err := g.Materialize(); err != nil {
		return nil, err
	}

	snapshot, err := g.inferrer.Infer(g.entries)
	if err == nil && snapshot == nil {
		err = errors.New("inferrer returned no snapshot")
	}
	if err != nil {
		if !errors.Is(err, domain.ErrInferenceFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrInferenceFailed, err)
		}
		g.infraState = InfraFailed
		g.infraErr = fmt.Errorf("%s: %w", g, err)
		g.logger.Warn("Global infra inference failed",
			zap.String("group", g.name),
			zap.Error(err))
		return nil, g.infraErr
	}

	g.infra = snapshot
	g.infraState = InfraComputed
	g.logger.Info("Done inferring global infra",
		zap.Stringer("group", g),
		zap.Int("nodes", snapshot.NodeCount()),
		zap.Int("subnets", snapshot.SubnetCount()))
	return snapshot, nil
}
