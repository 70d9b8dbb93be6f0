package chip

import (
	"fmt"
	"strings"
)

// Bus identifies the bus a chip sits on. Non-negative values are i2c
// adapter numbers; the named buses use negative sentinels so a plain
// adapter number can never collide with them.
type Bus int

const (
	// BusISA is the legacy ISA bus
	BusISA Bus = -1
	// BusDummy is the placeholder bus used by procfs-less test chips
	BusDummy Bus = -2
	// BusAnyI2C matches any i2c adapter, but never ISA or PCI
	BusAnyI2C Bus = -3
	// BusAny matches every bus
	BusAny Bus = -4
	// BusPCI is the PCI bus
	BusPCI Bus = -5
)

// Wildcard sentinels for the prefix and address fields of a Name.
const (
	PrefixAny = "*"
	AddrAny   = -1
)

// Name identifies a chip, either concretely (lm78 on i2c-0 at 0x2d) or
// as a pattern with wildcard fields (lm78 on any bus at any address).
// Chip names returned by a detector are always concrete.
type Name struct {
	Prefix string // Driver prefix ("lm78", "w83781d"), or PrefixAny
	Bus    Bus    // Bus selector
	Addr   int    // Bus address, or AddrAny
}

// HasWildcards reports whether the name can match more than one chip.
// Concrete-chip operations reject names for which this is true.
func (n Name) HasWildcards() bool {
	return n.Prefix == PrefixAny ||
		n.Bus == BusAny ||
		n.Bus == BusAnyI2C ||
		n.Addr == AddrAny
}

// Match compares two chip names, wildcards included, and reports
// whether they could refer to the same chip. It is symmetric.
//
// Bus rules: equal buses always match, BusAny matches everything, and
// BusAnyI2C matches any bus except ISA and PCI, which only ever match
// themselves.
func Match(a, b Name) bool {
	if a.Prefix != PrefixAny && b.Prefix != PrefixAny &&
		!strings.EqualFold(a.Prefix, b.Prefix) {
		return false
	}

	if a.Bus != BusAny && b.Bus != BusAny && a.Bus != b.Bus {
		if a.Bus == BusISA || b.Bus == BusISA {
			return false
		}
		if a.Bus == BusPCI || b.Bus == BusPCI {
			return false
		}
		if a.Bus != BusAnyI2C && b.Bus != BusAnyI2C {
			return false
		}
	}

	if a.Addr != b.Addr && a.Addr != AddrAny && b.Addr != AddrAny {
		return false
	}

	return true
}

// String renders the name in the prefix-bus-addr text syntax,
// e.g. "lm78-i2c-0-2d", "w83781d-isa-0290", "lm78-*".
func (n Name) String() string {
	prefix := n.Prefix
	if prefix == PrefixAny {
		prefix = "*"
	}

	if n.Bus == BusAny && n.Addr == AddrAny {
		return prefix + "-*"
	}

	addr := "*"
	if n.Addr != AddrAny {
		if n.Bus == BusISA {
			addr = fmt.Sprintf("%04x", n.Addr)
		} else {
			addr = fmt.Sprintf("%x", n.Addr)
		}
	}

	switch n.Bus {
	case BusISA:
		return fmt.Sprintf("%s-isa-%s", prefix, addr)
	case BusPCI:
		return fmt.Sprintf("%s-pci-%s", prefix, addr)
	case BusDummy:
		return fmt.Sprintf("%s-dummy-%s", prefix, addr)
	case BusAnyI2C, BusAny:
		return fmt.Sprintf("%s-i2c-*-%s", prefix, addr)
	default:
		return fmt.Sprintf("%s-i2c-%d-%s", prefix, int(n.Bus), addr)
	}
}

// AdapterName returns a human-readable name for the named buses.
// Numbered i2c adapters are described generically; a detector that
// knows the real adapter names can override this.
func (b Bus) AdapterName() string {
	switch b {
	case BusISA:
		return "ISA adapter"
	case BusPCI:
		return "PCI adapter"
	case BusDummy:
		return "Dummy adapter"
	case BusAny, BusAnyI2C:
		return "Any adapter"
	default:
		return fmt.Sprintf("i2c-%d adapter", int(b))
	}
}
