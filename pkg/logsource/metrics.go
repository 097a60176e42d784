package logsource

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

type sourceMetrics struct {
	entriesDecoded metric.Int64Counter
	linesSkipped   metric.Int64Counter
	decodeErrors   metric.Int64Counter
}

var (
	metricsOnce sync.Once
	metrics     *sourceMetrics
)

// getMetrics creates the package instruments on first use. Instrument
// creation failures are logged and leave the counter nil.
func getMetrics(logger *zap.Logger) *sourceMetrics {
	metricsOnce.Do(func() {
		meter := otel.Meter("polmon.logsource")
		m := &sourceMetrics{}
		var err error

		m.entriesDecoded, err = meter.Int64Counter(
			"logsource_entries_decoded_total",
			metric.WithDescription("Total log records decoded"),
		)
		if err != nil {
			logger.Warn("Failed to create entries counter", zap.Error(err))
		}

		m.linesSkipped, err = meter.Int64Counter(
			"logsource_framing_lines_skipped_total",
			metric.WithDescription("Total framing-only lines skipped"),
		)
		if err != nil {
			logger.Warn("Failed to create skipped lines counter", zap.Error(err))
		}

		m.decodeErrors, err = meter.Int64Counter(
			"logsource_decode_errors_total",
			metric.WithDescription("Total lines that failed to decode"),
		)
		if err != nil {
			logger.Warn("Failed to create decode errors counter", zap.Error(err))
		}

		metrics = m
	})
	return metrics
}

func add(ctx context.Context, c metric.Int64Counter, n int64) {
	if c != nil && n > 0 {
		c.Add(ctx, n)
	}
}
