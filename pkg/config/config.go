// Package config holds polmon settings loaded through viper.
package config

import (
	"runtime"

	"github.com/spf13/viper"
	"github.com/yairfalse/polmon/pkg/group"
	"github.com/yairfalse/polmon/pkg/logsource"
	"github.com/yairfalse/polmon/pkg/topology"
)

// Config represents the main configuration structure
type Config struct {
	// Mode is the group construction mode: stream or eager
	Mode string `mapstructure:"mode" yaml:"mode" json:"mode"`

	// Workers bounds how many groups are processed in parallel
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`

	// Compression forces a log decoding; empty means detect by extension
	Compression string `mapstructure:"compression" yaml:"compression" json:"compression"`

	Topology TopologyConfig `mapstructure:"topology" yaml:"topology" json:"topology"`
	CI       CIConfig       `mapstructure:"ci" yaml:"ci" json:"ci"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
}

// TopologyConfig controls topology inference
type TopologyConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Inferrer    string `mapstructure:"inferrer" yaml:"inferrer" json:"inferrer"`
	NodeField   string `mapstructure:"node_field" yaml:"node_field" json:"node_field"`
	SubnetField string `mapstructure:"subnet_field" yaml:"subnet_field" json:"subnet_field"`
}

// CIConfig describes the CI system that produced the logs
type CIConfig struct {
	JobURLTemplate string `mapstructure:"job_url_template" yaml:"job_url_template" json:"job_url_template"`
}

// OutputConfig selects the summary rendering
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Mode:    group.ModeStream.String(),
		Workers: defaultWorkers(),
		Topology: TopologyConfig{
			Enabled:     true,
			Inferrer:    topology.FieldInferrerName,
			NodeField:   topology.DefaultNodeField,
			SubnetField: topology.DefaultSubnetField,
		},
		CI: CIConfig{
			JobURLTemplate: group.DefaultJobURLTemplate,
		},
		Output: OutputConfig{Format: "human"},
		Log:    LogConfig{Level: "info"},
	}
}

func defaultWorkers() int {
	if n := runtime.NumCPU(); n < 4 {
		return n
	}
	return 4
}

// SetDefaults registers DefaultConfig values with v so that environment
// variables and config files can override each key
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("mode", d.Mode)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("compression", d.Compression)
	v.SetDefault("topology.enabled", d.Topology.Enabled)
	v.SetDefault("topology.inferrer", d.Topology.Inferrer)
	v.SetDefault("topology.node_field", d.Topology.NodeField)
	v.SetDefault("topology.subnet_field", d.Topology.SubnetField)
	v.SetDefault("ci.job_url_template", d.CI.JobURLTemplate)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("log.level", d.Log.Level)
}

// Load reads the settings held by v and validates them. Failures are
// returned as a ConfigError naming the config file in use, if any; see
// FixSuggestions.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		cerr := NewConfigError("unmarshal", err.Error(),
			"check the types of values in the config file").WithCause(err)
		cerr.File = v.ConfigFileUsed()
		return nil, cerr
	}

	if err := cfg.Validate(); err != nil {
		cerr := NewConfigError("validation", err.Error(), "").WithCause(err)
		cerr.File = v.ConfigFileUsed()
		return nil, cerr
	}
	return cfg, nil
}

// GroupMode returns the parsed Mode
func (c *Config) GroupMode() group.Mode {
	m, _ := group.ParseMode(c.Mode)
	return m
}

// LogCompression returns the parsed Compression
func (c *Config) LogCompression() logsource.Compression {
	comp, _ := logsource.ParseCompression(c.Compression)
	return comp
}
