// Package pipeline processes a batch of log files, one group per worker.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yairfalse/polmon/pkg/domain"
	"github.com/yairfalse/polmon/pkg/group"
	"github.com/yairfalse/polmon/pkg/logsource"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const cancelCheckInterval = logsource.CancelCheckInterval

// Config configures a Runner
type Config struct {
	Mode    group.Mode
	Workers int

	// InferTopology makes every group infer its topology, which
	// materializes its log
	InferTopology bool
	Inferrer      domain.Inferrer

	// GroupOptions are applied to every group built by the runner
	GroupOptions []group.Option
}

// Runner builds and processes groups in parallel
type Runner struct {
	config Config
	logger *zap.Logger

	groupsProcessed metric.Int64Counter
	groupsFailed    metric.Int64Counter
	processingTime  metric.Float64Histogram
}

// NewRunner validates config and creates a Runner
func NewRunner(config Config, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", config.Workers)
	}
	if config.InferTopology && config.Inferrer == nil {
		return nil, fmt.Errorf("topology inference enabled: %w", domain.ErrNoInferrer)
	}

	r := &Runner{config: config, logger: logger}

	meter := otel.Meter("polmon.pipeline")
	var err error

	r.groupsProcessed, err = meter.Int64Counter(
		"pipeline_groups_processed_total",
		metric.WithDescription("Total groups processed by the pipeline runner"),
	)
	if err != nil {
		logger.Warn("Failed to create groups counter", zap.Error(err))
	}

	r.groupsFailed, err = meter.Int64Counter(
		"pipeline_groups_failed_total",
		metric.WithDescription("Total groups that finished with an error"),
	)
	if err != nil {
		logger.Warn("Failed to create failed groups counter", zap.Error(err))
	}

	r.processingTime, err = meter.Float64Histogram(
		"pipeline_group_duration_ms",
		metric.WithDescription("Time to process one group in milliseconds"),
	)
	if err != nil {
		logger.Warn("Failed to create processing time histogram", zap.Error(err))
	}

	return r, nil
}

// Run processes every path and returns one summary per path, in input
// order. A group failing does not stop the others; the returned error is
// non-nil only when ctx is done before all groups finished.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Summary, error) {
	summaries := make([]Summary, len(paths))
	generations := AssignGenerations(paths)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.config.Workers)

	for i, path := range paths {
		if egCtx.Err() != nil {
			break
		}
		opts := append([]group.Option{group.WithLogger(r.logger)}, r.config.GroupOptions...)
		if r.config.Inferrer != nil {
			opts = append(opts, group.WithInferrer(r.config.Inferrer))
		}
		if gen, ok := generations[i]; ok {
			opts = append(opts, group.WithGeneration(gen))
		}

		eg.Go(func() error {
			summaries[i] = r.process(egCtx, path, opts)
			return nil
		})
	}

	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return summaries, err
	}
	return summaries, nil
}

func (r *Runner) process(ctx context.Context, path string, opts []group.Option) Summary {
	start := time.Now()
	summary := Summary{Path: path}

	defer func() {
		summary.Duration = time.Since(start)
		attrs := metric.WithAttributes(attribute.Bool("failed", summary.err != nil))
		if r.groupsProcessed != nil {
			r.groupsProcessed.Add(ctx, 1, attrs)
		}
		if summary.err != nil && r.groupsFailed != nil {
			r.groupsFailed.Add(ctx, 1)
		}
		if r.processingTime != nil {
			r.processingTime.Record(ctx, float64(summary.Duration.Milliseconds()), attrs)
		}
	}()

	g, err := group.FromFile(path, r.config.Mode, opts...)
	if err != nil {
		summary.fail(err)
		r.logger.Error("Failed to create group", zap.String("path", path), zap.Error(err))
		return summary
	}
	summary.describe(g)

	if r.config.InferTopology {
		if g.InfraState() == group.InfraNotComputed {
			err = g.MaterializeContext(ctx)
		}
		if err == nil {
			_, err = g.InferTopology()
		}
		summary.Entries = g.Buffered()
	} else {
		summary.Entries, err = countEntries(ctx, g)
	}
	summary.observe(g)

	if err != nil {
		summary.fail(err)
		level := zap.ErrorLevel
		if errors.Is(err, domain.ErrInferenceFailed) {
			level = zap.WarnLevel
		}
		r.logger.Log(level, "Group finished with error",
			zap.Stringer("group", g),
			zap.Error(err))
		return summary
	}

	r.logger.Info("Group processed",
		zap.Stringer("group", g),
		zap.Int("entries", summary.Entries),
		zap.Duration("elapsed", time.Since(start)))
	return summary
}

// countEntries drains the lazy log without materializing it
func countEntries(ctx context.Context, g *group.Group) (int, error) {
	n := 0
	for _, err := range g.Logs() {
		if err != nil {
			return n, err
		}
		n++
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
	}
	return n, ctx.Err()
}

// AssignGenerations returns generation numbers for paths whose derived group
// name repeats an earlier one. The first occurrence of a name gets none, the
// next ones 1, 2, and so on.
func AssignGenerations(paths []string) map[int]int {
	seen := make(map[string]int, len(paths))
	out := make(map[int]int)
	for i, path := range paths {
		name := group.NameFromPath(path)
		if n, ok := seen[name]; ok {
			out[i] = n
		}
		seen[name]++
	}
	return out
}
