package rater

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads the deployment configuration from filepath.
//
// When filepath is empty, the path is taken from NIVIZ_RATER_CONF.
func LoadConfig(filepath string) (*Config, error) {
	if filepath == "" {
		filepath = os.Getenv(EnvConfigPath)
	}
	if filepath == "" {
		return nil, fmt.Errorf(
			"no config file given: set %s or pass -config", EnvConfigPath,
		)
	}

	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

// Unmarshal parses and validates configuration content.
func Unmarshal(conf []byte) (*Config, error) {
	raw := map[string]PipelineConfig{}
	if err := yaml.Unmarshal(conf, &raw); err != nil {
		return nil, err
	}

	pipelines := make(map[PipelineKey]PipelineConfig, len(raw))
	for name, p := range raw {
		key, err := ParsePipelineKey(name)
		if err != nil {
			return nil, err
		}
		if p.BaseDir == "" {
			return nil, fmt.Errorf(`pipeline %s: required setting "base_dir" is missing`, name)
		}
		if p.QCSpec == "" {
			return nil, fmt.Errorf(`pipeline %s: required setting "qc_spec" is missing`, name)
		}
		pipelines[key] = p
	}

	return &Config{pipelines: pipelines}, nil
}
