package stoplight

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config declares mappings in a file instead of code.
// Models are keyed by Go type name.
//
//	models:
//	  Person:
//	    - field: age
//	      strategy: vary
//	      args: [15]
//	    - field: phone
//	      strategy: partial_suppress
//	      args: ["*** *** XXXX"]
//	    - field: name
//	      strategy: suppress
//	    - field: address
//	      strategy: mock
//	      args: [address]
type Config struct {
	Models map[string][]RuleConfig `yaml:"models"`
}

// RuleConfig is one rule as written in a Config.
type RuleConfig struct {
	Field    string `yaml:"field"`
	Strategy string `yaml:"strategy"`
	Args     []any  `yaml:"args,omitempty"`
}

// ParseConfig decodes a YAML config and checks every rule.
func ParseConfig(data []byte) (*Config, error) {
	return LoadConfig(bytes.NewReader(data))
}

// LoadConfig reads a YAML config from r and checks every rule.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	for _, model := range cfg.modelNames() {
		if _, err := cfg.Mapping(model); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// Mapping converts the rules configured for model.
func (c *Config) Mapping(model string) (Mapping, error) {
	rules, ok := c.Models[model]
	if !ok {
		return nil, &ConfigError{Err: ErrInvalidRule, Model: model, Value: model}
	}
	m := make(Mapping, 0, len(rules))
	for _, rc := range rules {
		if rc.Field == "" {
			return nil, &ConfigError{Err: ErrInvalidRule, Model: model, Value: rc.Strategy}
		}
		r, err := newRule(rc.Field, rc.Strategy, rc.Args)
		if err != nil {
			return nil, &ConfigError{Err: err, Model: model, Field: rc.Field, Value: rc.Strategy}
		}
		m = append(m, r)
	}
	return m, nil
}

func (c *Config) modelNames() []string {
	names := make([]string, 0, len(c.Models))
	for name := range c.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Configure declares the mappings in cfg for the given models, matching
// each model's Go type name against the config keys. A config entry with no
// matching model is an error.
func (a *Anonymizer) Configure(cfg *Config, models ...any) error {
	byName := make(map[string]any, len(models))
	for _, m := range models {
		t, ok := modelType(m)
		if !ok {
			return fmt.Errorf("%w: %T", ErrInvalidRecord, m)
		}
		byName[t.Name()] = m
	}

	for _, name := range cfg.modelNames() {
		model, ok := byName[name]
		if !ok {
			return &ConfigError{Err: ErrInvalidRecord, Model: name, Value: name}
		}
		mapping, err := cfg.Mapping(name)
		if err != nil {
			return err
		}
		t, _ := modelType(model)
		a.DeclareType(t, mapping)
	}
	return nil
}
