package cli

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the process logger. Logs go to stderr so that stdout
// carries only command output.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	logConfig := zap.NewProductionConfig()
	if verbose {
		logConfig = zap.NewDevelopmentConfig()
		level = "debug"
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logConfig.Level = zap.NewAtomicLevelAt(lvl)
	logConfig.OutputPaths = []string{"stderr"}

	return logConfig.Build()
}
