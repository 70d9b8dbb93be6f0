// Package chip defines chip name patterns and wildcard matching.
//
// A chip is identified by a driver prefix, a bus selector, and a bus
// address. Any of the three fields may be a wildcard, in which case the
// name is a pattern that can match several chips; a name with no
// wildcard fields is concrete. Matching is symmetric and follows the
// bus compatibility rules of the hardware: ISA and PCI only ever match
// themselves, while the any-i2c wildcard spans all i2c adapters.
//
// The package also implements the textual prefix-bus-addr syntax used
// in configuration files and on the command line ("lm78-i2c-0-2d",
// "w83781d-isa-0290", "lm78-*").
package chip
