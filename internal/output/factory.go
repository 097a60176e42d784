// Package output renders pipeline results for the command line.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/yairfalse/polmon/internal/pipeline"
)

// NameInfo is what a group name alone tells about a run
type NameInfo struct {
	Name   string `json:"name" yaml:"name"`
	Pot    string `json:"pot" yaml:"pot"`
	Local  bool   `json:"local" yaml:"local"`
	JobID  *int64 `json:"job_id,omitempty" yaml:"job_id,omitempty"`
	JobURL string `json:"job_url,omitempty" yaml:"job_url,omitempty"`
}

// Formatter renders results in one output format
type Formatter interface {
	PrintSummaries(summaries []pipeline.Summary) error
	PrintNames(names []NameInfo) error
}

// NewFormatter creates a formatter based on the format string
func NewFormatter(format string, writer io.Writer) (Formatter, error) {
	if writer == nil {
		writer = os.Stdout
	}

	switch format {
	case "json":
		return &JSONFormatter{Writer: writer, Indent: true}, nil
	case "yaml":
		return &YAMLFormatter{Writer: writer}, nil
	case "human", "":
		return NewHumanFormatter(writer), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Ensure our formatters implement the interface
var (
	_ Formatter = (*JSONFormatter)(nil)
	_ Formatter = (*YAMLFormatter)(nil)
	_ Formatter = (*HumanFormatter)(nil)
)
