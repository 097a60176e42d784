package pipeline

import (
	"time"

	"github.com/yairfalse/polmon/pkg/group"
)

// Summary describes the outcome of processing one group
type Summary struct {
	Path     string        `json:"path" yaml:"path"`
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	SafeName string        `json:"safe_name,omitempty" yaml:"safe_name,omitempty"`
	Pot      string        `json:"pot,omitempty" yaml:"pot,omitempty"`
	JobID    *int64        `json:"job_id,omitempty" yaml:"job_id,omitempty"`
	JobURL   string        `json:"job_url,omitempty" yaml:"job_url,omitempty"`
	Entries  int           `json:"entries" yaml:"entries"`
	Lines    int           `json:"lines" yaml:"lines"`
	Bytes    int64         `json:"bytes" yaml:"bytes"`
	Infra    string        `json:"infra" yaml:"infra"`
	Nodes    []string      `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Subnets  []string      `json:"subnets,omitempty" yaml:"subnets,omitempty"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration_ns" yaml:"duration"`

	err error
}

// Err returns the processing error, if any
func (s Summary) Err() error { return s.err }

// Failed reports whether processing ended with an error
func (s Summary) Failed() bool { return s.err != nil }

func (s *Summary) fail(err error) {
	s.err = err
	s.Error = err.Error()
}

// describe fills in the name-derived identifiers
func (s *Summary) describe(g *group.Group) {
	s.Name = g.Name()
	s.SafeName = g.SafeName()
	s.Pot = g.PotName()
	if id, ok := g.JobReference(); ok {
		s.JobID = &id
	}
	if url, ok := g.JobURL(); ok {
		s.JobURL = url
	}
}

// observe records read counters and topology after processing
func (s *Summary) observe(g *group.Group) {
	if src := g.Source(); src != nil {
		stats := src.Stats()
		s.Lines = stats.Lines
		s.Bytes = stats.Bytes
	}
	s.Infra = g.InfraState().String()
	if infra := g.GlobalInfra(); infra != nil {
		s.Nodes = infra.Nodes()
		s.Subnets = infra.Subnets()
	}
}
