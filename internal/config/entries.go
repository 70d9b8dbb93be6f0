package config

import (
	"github.com/hwsense/hwsense/internal/chip"
	"github.com/hwsense/hwsense/internal/expr"
)

// Label attaches a human-readable text to a feature name.
type Label struct {
	Feature string
	Text    string
}

// Compute attaches a pair of conversion expressions to a feature name:
// From converts the raw value into the presented value, To converts a
// value to be written back into raw form.
type Compute struct {
	Feature string
	From    *expr.Node
	To      *expr.Node
}

// Set is an initialization directive: on apply, the expression is
// evaluated (with no source value) and written to the feature. Line
// records where the directive was declared, for error reporting.
type Set struct {
	Feature string
	Value   *expr.Node
	Line    int
}

// Entry is one chip block of the configuration: a set of chip name
// patterns and the directives that apply to chips matching them.
// Directive order within an entry is declaration order.
type Entry struct {
	Patterns []chip.Name
	Labels   []Label
	Ignores  []string
	Computes []Compute
	Sets     []Set
}

// matches reports whether any of the entry's patterns matches the
// query chip.
func (e *Entry) matches(query chip.Name) bool {
	for _, p := range e.Patterns {
		if chip.Match(p, query) {
			return true
		}
	}
	return false
}

// Config is the ordered list of chip entries, in declaration order.
// Later entries take precedence over earlier ones for overlapping
// patterns, so matching walks the list backward. Immutable once
// loaded.
type Config struct {
	entries []*Entry
}

// Append adds an entry after all existing ones, giving it the highest
// precedence so far.
func (c *Config) Append(e *Entry) {
	c.entries = append(c.entries, e)
}

// Len returns the number of chip entries.
func (c *Config) Len() int { return len(c.entries) }

// Matches returns an iterator over the entries whose patterns match
// the query chip, newest-declared first. The iterator is a one-shot
// cursor: call Next until it returns nil.
func (c *Config) Matches(query chip.Name) *MatchIter {
	return &MatchIter{config: c, query: query, pos: len(c.entries) - 1}
}

// MatchIter walks config entries matching a chip query in reverse
// declaration order. Treat it as opaque; only Next is meaningful.
type MatchIter struct {
	config *Config
	query  chip.Name
	pos    int
}

// Next returns the next matching entry, or nil when no entries remain.
func (it *MatchIter) Next() *Entry {
	for ; it.pos >= 0; it.pos-- {
		e := it.config.entries[it.pos]
		if e.matches(it.query) {
			it.pos--
			return e
		}
	}
	return nil
}
