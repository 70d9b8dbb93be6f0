package backend

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hwsense/hwsense/internal/catalog"
	"github.com/hwsense/hwsense/internal/chip"
	"github.com/hwsense/hwsense/internal/logging"
)

// DefaultSysfsRoot is where the kernel exposes hwmon devices.
const DefaultSysfsRoot = "/sys/class/hwmon"

// attrPattern matches hwmon attribute files: base word, channel
// index, optional suffix ("temp1_input", "fan2_min", "in0_alarm").
var attrPattern = regexp.MustCompile(`^([a-z]+)([0-9]+)(?:_([a-z0-9_]+))?$`)

// i2cDevPattern matches the i2c device directory form "<adapter>-<addr>".
var i2cDevPattern = regexp.MustCompile(`^([0-9]+)-([0-9a-f]{4})$`)

// Sysfs reads and writes sensor values through the hwmon class
// directories. It scans once at open time; the detected chips and the
// synthesized catalog are immutable afterwards.
type Sysfs struct {
	root     string
	chips    []sysfsChip
	catalog  *catalog.Catalog
	adapters map[chip.Bus]string
}

type sysfsChip struct {
	name  chip.Name
	dir   string
	attrs map[int]string // feature number -> attribute file name
}

// OpenSysfs scans the hwmon tree under root (DefaultSysfsRoot when
// empty) and builds the detector, backend and catalog for the chips it
// finds.
func OpenSysfs(root string) (*Sysfs, error) {
	if root == "" {
		root = DefaultSysfsRoot
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "hwmon") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	s := &Sysfs{
		root:     root,
		catalog:  &catalog.Catalog{},
		adapters: make(map[chip.Bus]string),
	}

	for i, entry := range names {
		dir := filepath.Join(root, entry)
		if err := s.scanChip(dir, i); err != nil {
			logging.Warn("skipping hwmon device",
				zap.String("dir", dir),
				zap.Error(err),
			)
		}
	}

	return s, nil
}

// scanChip reads one hwmonN directory into a detected chip.
func (s *Sysfs) scanChip(dir string, index int) error {
	prefixRaw, err := os.ReadFile(filepath.Join(dir, "name"))
	if err != nil {
		return fmt.Errorf("no name attribute: %w", err)
	}
	prefix := strings.TrimSpace(string(prefixRaw))
	if prefix == "" {
		return fmt.Errorf("empty name attribute")
	}

	name := s.busAddress(dir, prefix, index)

	features, attrs, err := buildFeatures(dir)
	if err != nil {
		return err
	}

	s.catalog.Add(prefix, features)
	s.chips = append(s.chips, sysfsChip{name: name, dir: dir, attrs: attrs})

	logging.Debug("detected chip",
		zap.String("chip", name.String()),
		zap.Int("features", len(features)),
	)
	return nil
}

// busAddress derives the bus and address of a chip from its device
// symlink. I2c devices live under "<adapter>-<addr>" directories;
// anything else is treated as a platform (ISA-like) device with the
// hwmon index as address.
func (s *Sysfs) busAddress(dir, prefix string, index int) chip.Name {
	name := chip.Name{Prefix: prefix, Bus: chip.BusISA, Addr: index}

	target, err := os.Readlink(filepath.Join(dir, "device"))
	if err != nil {
		return name
	}

	base := filepath.Base(target)
	if m := i2cDevPattern.FindStringSubmatch(base); m != nil {
		adapter, _ := strconv.Atoi(m[1])
		addr, _ := strconv.ParseInt(m[2], 16, 32)
		name.Bus = chip.Bus(adapter)
		name.Addr = int(addr)
		s.recordAdapter(chip.Bus(adapter))
	} else if strings.Contains(target, "/pci") {
		name.Bus = chip.BusPCI
		name.Addr = index
	}

	return name
}

// recordAdapter remembers the human-readable adapter name, if the
// kernel exposes one.
func (s *Sysfs) recordAdapter(bus chip.Bus) {
	if _, ok := s.adapters[bus]; ok {
		return
	}
	path := filepath.Join(filepath.Dir(s.root), "i2c-adapter",
		fmt.Sprintf("i2c-%d", int(bus)), "name")
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	s.adapters[bus] = strings.TrimSpace(string(data))
}

// buildFeatures synthesizes the feature table of one chip from its
// attribute files. Each "<base><n>_input" file becomes a main feature
// named "<base><n>"; its sibling attributes become sub-features mapped
// to it, sharing its compute expression.
func buildFeatures(dir string) ([]catalog.Feature, map[int]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	type channel struct {
		base  string
		index string
		subs  []string
	}
	byChannel := make(map[string]*channel)
	var order []string

	for _, e := range entries {
		m := attrPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		base, idx, suffix := m[1], m[2], m[3]
		switch base {
		case "temp", "in", "fan":
		default:
			continue
		}
		key := base + idx
		ch, ok := byChannel[key]
		if !ok {
			ch = &channel{base: base, index: idx}
			byChannel[key] = ch
			order = append(order, key)
		}
		if suffix != "" && suffix != "input" {
			ch.subs = append(ch.subs, suffix)
		}
	}
	sort.Strings(order)

	var features []catalog.Feature
	attrs := make(map[int]string)
	number := 0

	for _, key := range order {
		ch := byChannel[key]

		main := number
		features = append(features, catalog.Feature{
			Number:         main,
			Name:           key,
			Mode:           attrMode(dir, key+"_input"),
			Mapping:        catalog.NoMapping,
			ComputeMapping: catalog.NoMapping,
		})
		attrs[main] = key + "_input"
		number++

		sort.Strings(ch.subs)
		for _, suffix := range ch.subs {
			file := key + "_" + suffix
			features = append(features, catalog.Feature{
				Number:         number,
				Name:           file,
				Mode:           attrMode(dir, file),
				Mapping:        main,
				ComputeMapping: main,
			})
			attrs[number] = file
			number++
		}
	}

	return features, attrs, nil
}

// attrMode derives the access mode from the attribute file
// permissions.
func attrMode(dir, file string) catalog.AccessMode {
	info, err := os.Stat(filepath.Join(dir, file))
	if err != nil {
		return 0
	}
	var mode catalog.AccessMode
	perm := info.Mode().Perm()
	if perm&0o400 != 0 {
		mode |= catalog.ModeR
	}
	if perm&0o200 != 0 {
		mode |= catalog.ModeW
	}
	return mode
}

// Chips implements the detector interface.
func (s *Sysfs) Chips() []chip.Name {
	out := make([]chip.Name, len(s.chips))
	for i := range s.chips {
		out[i] = s.chips[i].name
	}
	return out
}

// Catalog returns the feature catalog synthesized during the scan.
func (s *Sysfs) Catalog() *catalog.Catalog {
	return s.catalog
}

// AdapterName returns a human-readable name for the bus, preferring
// the kernel-provided i2c adapter name when known.
func (s *Sysfs) AdapterName(bus chip.Bus) string {
	if name, ok := s.adapters[bus]; ok {
		return name
	}
	return bus.AdapterName()
}

// ReadRaw reads a raw feature value from the attribute file.
func (s *Sysfs) ReadRaw(name chip.Name, feature int) (float64, error) {
	c, file, err := s.attrPath(name, feature)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(filepath.Join(c.dir, file))
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", file, err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("bad value in %s: %w", file, err)
	}
	return v, nil
}

// WriteRaw writes a raw feature value to the attribute file. Hwmon
// attributes are integers, so the value is rounded.
func (s *Sysfs) WriteRaw(name chip.Name, feature int, value float64) error {
	c, file, err := s.attrPath(name, feature)
	if err != nil {
		return err
	}
	data := strconv.Itoa(int(math.Round(value)))
	if err := os.WriteFile(filepath.Join(c.dir, file), []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	return nil
}

func (s *Sysfs) attrPath(name chip.Name, feature int) (*sysfsChip, string, error) {
	for i := range s.chips {
		if s.chips[i].name == name {
			file, ok := s.chips[i].attrs[feature]
			if !ok {
				return nil, "", fmt.Errorf("chip %s has no attribute for feature %d", name, feature)
			}
			return &s.chips[i], file, nil
		}
	}
	return nil, "", fmt.Errorf("chip %s not detected", name)
}
