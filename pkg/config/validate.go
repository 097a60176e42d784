package config

import (
	"strings"

	"github.com/yairfalse/polmon/pkg/group"
	"github.com/yairfalse/polmon/pkg/logsource"
	"go.uber.org/zap/zapcore"
)

var validFormats = []string{"human", "json", "yaml"}

// Validate checks every field and reports all blocking problems at once.
// Warnings alone do not fail validation; see Warnings.
func (c *Config) Validate() error {
	verrs := c.check()
	if verrs.HasBlocking() {
		return verrs
	}
	return nil
}

// Warnings returns the non-blocking findings
func (c *Config) Warnings() []ValidationError {
	var out []ValidationError
	for _, e := range c.check().Errors {
		if e.Warning {
			out = append(out, e)
		}
	}
	return out
}

func (c *Config) check() ValidationErrors {
	var errs []ValidationError

	if _, err := group.ParseMode(c.Mode); err != nil {
		e := NewValidationError("mode", err.Error(), "use 'stream' or 'eager'")
		e.CurrentValue = c.Mode
		e.ValidValues = []string{"stream", "eager"}
		errs = append(errs, e)
	}

	if c.Workers < 1 {
		e := NewValidationError("workers", "must be at least 1", "set workers to the number of groups to process in parallel")
		e.CurrentValue = c.Workers
		errs = append(errs, e)
	}

	if _, err := logsource.ParseCompression(c.Compression); err != nil {
		e := NewValidationError("compression", err.Error(), "leave empty to detect from the file extension")
		e.CurrentValue = c.Compression
		e.ValidValues = []string{"auto", "none", "gzip", "zstd"}
		errs = append(errs, e)
	}

	if c.Topology.Enabled {
		if c.Topology.Inferrer == "" {
			errs = append(errs, NewValidationError("topology.inferrer", "is required when topology is enabled",
				"set topology.inferrer or disable topology inference"))
		}
		if c.Topology.NodeField == "" {
			errs = append(errs, NewValidationError("topology.node_field", "is required when topology is enabled",
				"set the dotted path of the node identity, e.g. node_id"))
		}
	}

	if c.CI.JobURLTemplate != "" && !strings.Contains(c.CI.JobURLTemplate, "{job_id}") {
		e := NewValidationWarning("ci.job_url_template", "template has no {job_id} placeholder",
			"links will not identify the job; include {job_id}")
		e.CurrentValue = c.CI.JobURLTemplate
		errs = append(errs, e)
	}

	if !contains(validFormats, c.Output.Format) {
		e := NewValidationError("output.format", "unknown output format", "use one of: "+strings.Join(validFormats, ", "))
		e.CurrentValue = c.Output.Format
		e.ValidValues = validFormats
		errs = append(errs, e)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		e := NewValidationError("log.level", err.Error(), "use debug, info, warn or error")
		e.CurrentValue = c.Log.Level
		errs = append(errs, e)
	}

	return NewValidationErrors(errs)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
