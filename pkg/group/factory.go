package group

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yairfalse/polmon/pkg/logsource"
	"go.uber.org/zap"
)

// Mode states how a caller intends to use a file group. Both modes build
// the same lazy group; materialization is always explicit.
type Mode int

const (
	ModeStream Mode = iota
	ModeEager
)

func (m Mode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeEager:
		return "eager"
	default:
		return "unknown"
	}
}

// ParseMode converts a configuration string
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "stream":
		return ModeStream, nil
	case "eager", "load":
		return ModeEager, nil
	default:
		return ModeStream, fmt.Errorf("unknown group mode %q (want stream or eager)", s)
	}
}

// NameFromPath derives a pseudo group name from a log file path: the base
// name up to its first dot, plus PseudoSuffix.
func NameFromPath(path string) string {
	stem, _, _ := strings.Cut(filepath.Base(path), ".")
	return stem + PseudoSuffix
}

// FromFile builds a group over the log file at path. The file must exist but
// is not read until the group's logs are consumed.
func FromFile(path string, mode Mode, opts ...Option) (*Group, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %s is a directory", path)
	}

	g := New(NameFromPath(path), nil, opts...)
	srcOpts := append([]logsource.Option{logsource.WithLogger(g.logger)}, g.sourceOpts...)
	g.source = logsource.New(path, srcOpts...)
	g.stream = g.source.Entries()

	g.logger.Debug("Created group from file",
		zap.String("group", g.name),
		zap.String("path", path),
		zap.Stringer("mode", mode),
		zap.Int64("size_bytes", info.Size()))
	return g, nil
}
