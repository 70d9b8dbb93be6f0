package catalog

import "strings"

// AccessMode is the read/write capability bitmask of a feature.
type AccessMode int

const (
	// ModeR allows reading the feature
	ModeR AccessMode = 1 << iota
	// ModeW allows writing the feature
	ModeW
	// ModeRW allows both
	ModeRW = ModeR | ModeW
)

// CanRead reports whether the mode includes read access
func (m AccessMode) CanRead() bool { return m&ModeR != 0 }

// CanWrite reports whether the mode includes write access
func (m AccessMode) CanWrite() bool { return m&ModeW != 0 }

// NoMapping marks a feature without a mapping or compute-mapping link.
const NoMapping = -1

// Feature describes one feature of a chip family.
//
// Mapping links a sub-feature (an alarm, a limit) to the feature number
// of its parent for label and ignore matching. ComputeMapping links a
// feature to the one whose computed conversion expression it shares.
// Either is NoMapping when absent.
type Feature struct {
	Number         int
	Name           string
	DisplayName    string // Preferred name for display and classification, if set
	Mode           AccessMode
	Mapping        int
	ComputeMapping int
}

// TypeName returns the name the feature should be classified and
// displayed under: DisplayName when set, Name otherwise.
func (f *Feature) TypeName() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

// Catalog is the static, read-only table of known features per chip
// family. It is built once (by a backend or from fixtures) and never
// mutated afterwards.
type Catalog struct {
	families []family
}

type family struct {
	prefix   string
	features []Feature
}

// Add appends the feature list for a chip family. Feature order is
// preserved: enumeration relies on sub-features following the main
// feature they map to.
func (c *Catalog) Add(prefix string, features []Feature) {
	c.families = append(c.families, family{prefix: prefix, features: features})
}

// LookupNumber finds a feature by chip prefix and feature number.
// Returns nil if the prefix is unknown or the feature is absent;
// absence is not an error here, callers decide whether it is fatal.
func (c *Catalog) LookupNumber(prefix string, number int) *Feature {
	for i := range c.families {
		if !strings.EqualFold(c.families[i].prefix, prefix) {
			continue
		}
		features := c.families[i].features
		for j := range features {
			if features[j].Number == number {
				return &features[j]
			}
		}
	}
	return nil
}

// LookupName finds a feature by chip prefix and feature name. The name
// compare is case-insensitive. Returns nil if not found.
func (c *Catalog) LookupName(prefix, name string) *Feature {
	for i := range c.families {
		if !strings.EqualFold(c.families[i].prefix, prefix) {
			continue
		}
		features := c.families[i].features
		for j := range features {
			if strings.EqualFold(features[j].Name, name) {
				return &features[j]
			}
		}
	}
	return nil
}

// Prefixes returns the known chip family prefixes in insertion order.
func (c *Catalog) Prefixes() []string {
	out := make([]string, len(c.families))
	for i := range c.families {
		out[i] = c.families[i].prefix
	}
	return out
}
