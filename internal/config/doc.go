// Package config holds the in-memory sensor configuration: an ordered
// list of chip entries, each carrying chip name patterns and the
// label, ignore, compute and set directives that apply to matching
// chips.
//
// Declaration order is significant. Entries later in the file override
// earlier ones for overlapping patterns, so Matches walks the list in
// reverse declaration order and yields the newest matching entry
// first. The configuration is immutable once loaded; the access layer
// only ever reads it.
//
// The YAML loader parses the on-disk format, including the directive
// expressions, into this structure.
package config
