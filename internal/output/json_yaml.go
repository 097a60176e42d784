package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yairfalse/polmon/internal/pipeline"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Writer io.Writer
	Indent bool
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		Writer: w,
		Indent: indent,
	}
}

// PrintSummaries prints group summaries as a JSON document
func (f *JSONFormatter) PrintSummaries(summaries []pipeline.Summary) error {
	return f.encode(map[string]interface{}{
		"groups": nonNil(summaries),
		"failed": countFailed(summaries),
	})
}

// PrintNames prints name information as a JSON document
func (f *JSONFormatter) PrintNames(names []NameInfo) error {
	if names == nil {
		names = []NameInfo{}
	}
	return f.encode(map[string]interface{}{"names": names})
}

func (f *JSONFormatter) encode(v interface{}) error {
	encoder := json.NewEncoder(f.Writer)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{Writer: w}
}

// PrintSummaries prints group summaries keyed by safe name
func (f *YAMLFormatter) PrintSummaries(summaries []pipeline.Summary) error {
	doc := make(map[string]pipeline.Summary, len(summaries))
	for _, s := range summaries {
		key := s.SafeName
		if key == "" {
			key = s.Path
		}
		doc[key] = s
	}
	return f.encode(doc)
}

// PrintNames prints name information as a YAML list
func (f *YAMLFormatter) PrintNames(names []NameInfo) error {
	if names == nil {
		names = []NameInfo{}
	}
	return f.encode(names)
}

func (f *YAMLFormatter) encode(v interface{}) error {
	encoder := yaml.NewEncoder(f.Writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func nonNil(summaries []pipeline.Summary) []pipeline.Summary {
	if summaries == nil {
		return []pipeline.Summary{}
	}
	return summaries
}

func countFailed(summaries []pipeline.Summary) int {
	n := 0
	for _, s := range summaries {
		if s.Failed() {
			n++
		}
	}
	return n
}
