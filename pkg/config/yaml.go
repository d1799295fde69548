package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes. Unknown keys are
// rejected so typos in config files surface immediately.
func FromYAML(data []byte) (*Config, error) {
	cfg := NewConfig()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cfg.Output != "" && !cfg.Output.IsValid() {
		return nil, fmt.Errorf("invalid output mode %q", cfg.Output)
	}

	return cfg, nil
}

// LoadFile reads and parses a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := FromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := &Config{
		LogLevel:  c.LogLevel,
		Output:    c.Output,
		Backups:   c.Backups,
		Jobs:      c.Jobs,
		Force:     c.Force,
		NoBackups: c.NoBackups,
	}

	if c.Coalesce != nil {
		v := *c.Coalesce
		clone.Coalesce = &v
	}
	if c.Filters != nil {
		clone.Filters = append([]string(nil), c.Filters...)
	}
	if c.Ignore != nil {
		clone.Ignore = append([]string(nil), c.Ignore...)
	}
	if c.Extensions != nil {
		clone.Extensions = append([]string(nil), c.Extensions...)
	}

	return clone
}
