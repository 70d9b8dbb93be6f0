package chip

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts the prefix-bus-addr text syntax into a Name.
//
// Accepted forms:
//
//	lm78-i2c-0-2d     concrete i2c chip (adapter 0, address 0x2d)
//	lm78-i2c-*-2d     any i2c adapter
//	w83781d-isa-0290  ISA chip at 0x290
//	lm78-isa-*        any ISA address
//	lm78-*            any bus, any address
//	*-i2c-*-*         every i2c chip
//
// Addresses are hexadecimal. The bare form "*" matches every chip.
func Parse(s string) (Name, error) {
	if s == "*" {
		return Name{Prefix: PrefixAny, Bus: BusAny, Addr: AddrAny}, nil
	}

	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return Name{}, fmt.Errorf("invalid chip name %q: missing bus part", s)
	}

	// The prefix itself may contain dashes, so parse from the right:
	// the last one or two parts are the address and (optionally) the
	// i2c adapter number, the part before them the bus keyword.
	name := Name{}

	last := parts[len(parts)-1]

	// prefix-*: everything wildcarded after the prefix
	if len(parts) == 2 && last == "*" {
		name.Prefix = parts[0]
		name.Bus = BusAny
		name.Addr = AddrAny
		return name, nil
	}

	if len(parts) < 3 {
		return Name{}, fmt.Errorf("invalid chip name %q: missing address part", s)
	}

	addr, err := parseAddr(last)
	if err != nil {
		return Name{}, fmt.Errorf("invalid chip name %q: %w", s, err)
	}
	name.Addr = addr

	busWord := parts[len(parts)-2]
	prefixEnd := len(parts) - 2

	switch busWord {
	case "isa":
		name.Bus = BusISA
	case "pci":
		name.Bus = BusPCI
	case "dummy":
		name.Bus = BusDummy
	case "*":
		name.Bus = BusAny
	default:
		// i2c form: prefix-i2c-N-addr
		if len(parts) < 4 || parts[len(parts)-3] != "i2c" {
			return Name{}, fmt.Errorf("invalid chip name %q: unknown bus %q", s, busWord)
		}
		nr, err := strconv.Atoi(busWord)
		if err != nil || nr < 0 {
			return Name{}, fmt.Errorf("invalid chip name %q: bad i2c adapter %q", s, busWord)
		}
		name.Bus = Bus(nr)
		prefixEnd = len(parts) - 3
	}

	// "prefix-i2c-*-addr": the wildcard adapter slot was consumed as a
	// bare bus wildcard above; the i2c keyword narrows it.
	if busWord == "*" && len(parts) >= 4 && parts[len(parts)-3] == "i2c" {
		name.Bus = BusAnyI2C
		prefixEnd = len(parts) - 3
	}

	if prefixEnd < 1 {
		return Name{}, fmt.Errorf("invalid chip name %q: empty prefix", s)
	}
	prefix := strings.Join(parts[:prefixEnd], "-")
	if prefix == "*" {
		prefix = PrefixAny
	}
	name.Prefix = prefix

	return name, nil
}

func parseAddr(s string) (int, error) {
	if s == "*" {
		return AddrAny, nil
	}
	addr, err := strconv.ParseInt(s, 16, 32)
	if err != nil || addr < 0 {
		return 0, fmt.Errorf("bad address %q", s)
	}
	return int(addr), nil
}
