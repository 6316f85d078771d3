// Package bids extracts BIDS-style entities from pipeline output files.
//
// Which entities exist and how they appear in a file path comes from a
// JSON entity configuration. A built-in configuration covers the usual
// datman pipelines; a deployment can override it per pipeline with the
// "bids_config" setting.
package bids

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

//go:embed data/bids.json
var defaultConfigJSON []byte

// Entity is one recognized filename entity, e.g. subject or session.
type Entity struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`

	re *regexp.Regexp
}

// Config is a set of recognized entities.
type Config struct {
	Entities []Entity `json:"entities"`

	names map[string]struct{}
}

// DefaultConfig returns the built-in entity configuration.
func DefaultConfig() *Config {
	c, err := Unmarshal(defaultConfigJSON)
	if err != nil {
		// the embedded configuration is checked by tests
		panic(err)
	}
	return c
}

// LoadConfig reads an entity configuration from a JSON file.
// An empty path selects the built-in configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

// Unmarshal parses entity configuration content and compiles its patterns.
func Unmarshal(content []byte) (*Config, error) {
	c := &Config{}
	if err := json.Unmarshal(content, c); err != nil {
		return nil, err
	}
	if len(c.Entities) == 0 {
		return nil, fmt.Errorf(`entity configuration has no "entities"`)
	}

	c.names = make(map[string]struct{}, len(c.Entities))
	for i, e := range c.Entities {
		if e.Name == "" {
			return nil, fmt.Errorf("entity #%d has no name", i)
		}
		re, err := regexp.Compile(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("entity %s: bad pattern: %w", e.Name, err)
		}
		if re.NumSubexp() != 1 {
			return nil, fmt.Errorf(
				"entity %s: pattern %q needs exactly one capture group", e.Name, e.Pattern,
			)
		}
		c.Entities[i].re = re
		c.names[e.Name] = struct{}{}
	}
	return c, nil
}

// Has reports whether name is a recognized entity.
func (c *Config) Has(name string) bool {
	_, ok := c.names[name]
	return ok
}

// EntityNames lists the recognized entity names in configuration order.
func (c *Config) EntityNames() []string {
	names := make([]string, 0, len(c.Entities))
	for _, e := range c.Entities {
		names = append(names, e.Name)
	}
	return names
}

// ParseEntities extracts every recognized entity found in path.
func (c *Config) ParseEntities(path string) map[string]string {
	found := map[string]string{}
	for _, e := range c.Entities {
		if m := e.re.FindStringSubmatch(path); m != nil {
			found[e.Name] = m[1]
		}
	}
	return found
}
