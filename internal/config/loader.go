package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hwsense/hwsense/internal/chip"
	"github.com/hwsense/hwsense/internal/expr"
)

// File schema of the sensor configuration:
//
//	chips:
//	  - match:
//	      - lm78-*
//	      - w83781d-isa-0290
//	    labels:
//	      - feature: temp1
//	        text: CPU Temp
//	    ignore:
//	      - in5
//	    compute:
//	      - feature: temp2
//	        from: "@*0.1"
//	        to: "@/0.1"
//	    set:
//	      - feature: fan1_min
//	        value: "3000"
//
// Entry order in the file is declaration order; the last matching
// entry wins for overlapping patterns.
type fileConfig struct {
	Chips []chipBlock `yaml:"chips"`
}

type chipBlock struct {
	Match   []string         `yaml:"match"`
	Labels  []labelDirective `yaml:"labels"`
	Ignore  []string         `yaml:"ignore"`
	Compute []computeBlock   `yaml:"compute"`
	Set     []setBlock       `yaml:"set"`
}

type labelDirective struct {
	Feature string `yaml:"feature"`
	Text    string `yaml:"text"`
}

type computeBlock struct {
	Feature string `yaml:"feature"`
	From    string `yaml:"from"`
	To      string `yaml:"to"`
}

type setBlock struct {
	Feature string `yaml:"feature"`
	Value   string `yaml:"value"`
	line    int
}

// UnmarshalYAML records the source line of the directive alongside its
// fields, for error reporting during bulk apply.
func (s *setBlock) UnmarshalYAML(value *yaml.Node) error {
	var plain struct {
		Feature string `yaml:"feature"`
		Value   string `yaml:"value"`
	}
	if err := value.Decode(&plain); err != nil {
		return err
	}
	s.Feature = plain.Feature
	s.Value = plain.Value
	s.line = value.Line
	return nil
}

// Load reads and parses a sensor configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses sensor configuration YAML.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg := &Config{}
	for i, block := range fc.Chips {
		entry, err := buildEntry(block)
		if err != nil {
			return nil, fmt.Errorf("chip entry %d: %w", i+1, err)
		}
		cfg.Append(entry)
	}
	return cfg, nil
}

func buildEntry(block chipBlock) (*Entry, error) {
	if len(block.Match) == 0 {
		return nil, fmt.Errorf("missing match patterns")
	}

	entry := &Entry{}

	for _, pattern := range block.Match {
		name, err := chip.Parse(pattern)
		if err != nil {
			return nil, err
		}
		entry.Patterns = append(entry.Patterns, name)
	}

	for _, l := range block.Labels {
		if l.Feature == "" {
			return nil, fmt.Errorf("label without a feature name")
		}
		entry.Labels = append(entry.Labels, Label{Feature: l.Feature, Text: l.Text})
	}

	entry.Ignores = append(entry.Ignores, block.Ignore...)

	for _, c := range block.Compute {
		if c.Feature == "" {
			return nil, fmt.Errorf("compute without a feature name")
		}
		from, err := expr.Parse(c.From)
		if err != nil {
			return nil, fmt.Errorf("compute %s: %w", c.Feature, err)
		}
		to, err := expr.Parse(c.To)
		if err != nil {
			return nil, fmt.Errorf("compute %s: %w", c.Feature, err)
		}
		entry.Computes = append(entry.Computes, Compute{Feature: c.Feature, From: from, To: to})
	}

	for _, s := range block.Set {
		if s.Feature == "" {
			return nil, fmt.Errorf("set without a feature name")
		}
		value, err := expr.Parse(s.Value)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", s.Feature, err)
		}
		entry.Sets = append(entry.Sets, Set{Feature: s.Feature, Value: value, Line: s.line})
	}

	return entry, nil
}
