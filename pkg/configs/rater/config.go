// Package rater reads the deployment configuration of niviz-rater.
//
// The configuration is a YAML mapping from pipeline keys ("STUDY_pipeline")
// to the data locations of each pipeline. Its path is taken from the
// environment variable NIVIZ_RATER_CONF unless overridden by a flag.
package rater

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// EnvConfigPath is the environment variable naming the config file.
const EnvConfigPath = "NIVIZ_RATER_CONF"

// PipelineKey identifies one rated pipeline within a deployment.
//
// Its textual form is "STUDY_pipeline": everything before the first
// underscore is the datman study id, everything after it is the
// pipeline name. The textual form is also the database name.
type PipelineKey struct {
	Study    string
	Pipeline string
}

func (k PipelineKey) String() string {
	return k.Study + "_" + k.Pipeline
}

// ParsePipelineKey splits a "STUDY_pipeline" key at its first underscore.
//
// Both parts must be non-empty. The pipeline part may contain
// further underscores.
func ParsePipelineKey(s string) (PipelineKey, error) {
	study, pipeline, found := strings.Cut(s, "_")
	if !found || study == "" || pipeline == "" {
		return PipelineKey{}, fmt.Errorf(
			`pipeline key %q is not formatted as STUDY_pipeline`, s,
		)
	}
	return PipelineKey{Study: study, Pipeline: pipeline}, nil
}

// PipelineConfig locates the inputs of a single pipeline.
type PipelineConfig struct {
	// BaseDir is the root directory of the pipeline's image data.
	BaseDir string `yaml:"base_dir"`

	// QCSpec is the path to the QC spec YAML file.
	QCSpec string `yaml:"qc_spec"`

	// BidsConfig optionally overrides the built-in entity configuration.
	BidsConfig string `yaml:"bids_config,omitempty"`

	// Schema optionally overrides the QC spec schema. It is carried
	// for compatibility and not interpreted here.
	Schema string `yaml:"schema,omitempty"`

	// Extra holds implementation-specific keys, passed through opaquely.
	Extra map[string]any `yaml:",inline"`
}

// VerifyPaths checks that base_dir and qc_spec resolve to readable paths.
func (p PipelineConfig) VerifyPaths() error {
	if info, err := os.Stat(p.BaseDir); err != nil {
		return fmt.Errorf("base_dir: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("base_dir %s is not a directory", p.BaseDir)
	}
	if _, err := os.Stat(p.QCSpec); err != nil {
		return fmt.Errorf("qc_spec: %w", err)
	}
	return nil
}

// Config is the parsed deployment configuration.
type Config struct {
	pipelines map[PipelineKey]PipelineConfig
}

// Keys returns the configured pipeline keys, sorted by textual form.
func (c *Config) Keys() []PipelineKey {
	keys := make([]PipelineKey, 0, len(c.pipelines))
	for k := range c.pipelines {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Pipeline returns the config of the given key.
func (c *Config) Pipeline(key PipelineKey) (PipelineConfig, bool) {
	p, ok := c.pipelines[key]
	return p, ok
}

// Lookup resolves a (study, pipeline) pair to its config.
func (c *Config) Lookup(study, pipeline string) (PipelineConfig, bool) {
	return c.Pipeline(PipelineKey{Study: study, Pipeline: pipeline})
}

func (c *Config) Len() int {
	return len(c.pipelines)
}

// VerifyPaths checks that base_dir and qc_spec of every pipeline
// resolve to readable paths.
func (c *Config) VerifyPaths() error {
	for _, key := range c.Keys() {
		if err := c.pipelines[key].VerifyPaths(); err != nil {
			return fmt.Errorf("pipeline %s: %w", key, err)
		}
	}
	return nil
}
