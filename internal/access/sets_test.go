package access

import (
	"errors"
	"testing"

	"github.com/hwsense/hwsense/internal/backend"
	"github.com/hwsense/hwsense/internal/catalog"
	"github.com/hwsense/hwsense/internal/chip"
	"github.com/hwsense/hwsense/internal/config"
	"github.com/hwsense/hwsense/internal/expr"
	"github.com/hwsense/hwsense/internal/sensor"
)

func setsEntry(pattern chip.Name, sets ...config.Set) *config.Entry {
	return &config.Entry{Patterns: []chip.Name{pattern}, Sets: sets}
}

var lm78Any = chip.Name{Prefix: "lm78", Bus: chip.BusAny, Addr: chip.AddrAny}

func TestApplySets(t *testing.T) {
	cfg := &config.Config{}
	cfg.Append(setsEntry(lm78Any,
		config.Set{Feature: "fan1_min", Value: expr.MustParse("3000"), Line: 3},
		config.Set{Feature: "temp1_max", Value: expr.MustParse("60"), Line: 4},
	))

	sim := backend.NewSim()
	sim.AddChip(lm78)
	a := newAccessor(cfg, sim)

	if err := a.ApplyAllSets(); err != nil {
		t.Fatalf("ApplyAllSets failed: %v", err)
	}

	if v, ok := sim.Raw(lm78, 4); !ok || v != 3000 {
		t.Errorf("fan1_min raw = %v (ok=%v), want 3000", v, ok)
	}
	if v, ok := sim.Raw(lm78, 1); !ok || v != 60 {
		t.Errorf("temp1_max raw = %v (ok=%v), want 60", v, ok)
	}
}

func TestApplySetsDeduplicatesPerFeature(t *testing.T) {
	// Three entries all set fan1_min. The newest entry wins and the
	// feature is written exactly once.
	cfg := &config.Config{}
	cfg.Append(setsEntry(lm78Any, config.Set{Feature: "fan1_min", Value: expr.MustParse("1000")}))
	cfg.Append(setsEntry(lm78Any, config.Set{Feature: "fan1_min", Value: expr.MustParse("2000")}))
	cfg.Append(setsEntry(lm78Any, config.Set{Feature: "FAN1_MIN", Value: expr.MustParse("3000")}))

	sim := backend.NewSim()
	sim.AddChip(lm78)
	writes := &writeCounter{Sim: sim}
	a := New(testCatalog(), cfg, writes, sim)

	if err := a.ApplyAllSets(); err != nil {
		t.Fatalf("ApplyAllSets failed: %v", err)
	}

	if writes.count != 1 {
		t.Errorf("backend writes = %d, want exactly 1", writes.count)
	}
	if v, _ := sim.Raw(lm78, 4); v != 3000 {
		t.Errorf("fan1_min raw = %v, want 3000 (newest directive wins)", v)
	}
}

// writeCounter counts backend writes passing through to the sim.
type writeCounter struct {
	*backend.Sim
	count int
}

func (w *writeCounter) WriteRaw(name chip.Name, feature int, value float64) error {
	w.count++
	return w.Sim.WriteRaw(name, feature, value)
}

func TestApplySetsUnknownFeatureContinues(t *testing.T) {
	cfg := &config.Config{}
	cfg.Append(setsEntry(lm78Any,
		config.Set{Feature: "nonsense", Value: expr.MustParse("1"), Line: 2},
		config.Set{Feature: "fan1_min", Value: expr.MustParse("2500"), Line: 3},
	))

	sim := backend.NewSim()
	sim.AddChip(lm78)
	a := newAccessor(cfg, sim)

	err := a.ApplyAllSets()
	if !sensor.IsDirective(err) {
		t.Errorf("summary error = %v, want directive kind", err)
	}
	// The bad directive must not block the good one
	if v, ok := sim.Raw(lm78, 4); !ok || v != 2500 {
		t.Errorf("fan1_min raw = %v (ok=%v), want 2500", v, ok)
	}
}

func TestApplySetsWriteFailureContinues(t *testing.T) {
	cfg := &config.Config{}
	cfg.Append(setsEntry(lm78Any,
		config.Set{Feature: "fan1_min", Value: expr.MustParse("2000")},
		config.Set{Feature: "temp1_max", Value: expr.MustParse("70")},
	))

	sim := backend.NewSim()
	sim.AddChip(lm78)
	sim.FailWrite(lm78, 4, errors.New("readonly"))
	a := newAccessor(cfg, sim)

	err := a.ApplyAllSets()
	if !sensor.IsIO(err) {
		t.Errorf("summary error = %v, want io kind (first failure)", err)
	}
	if v, ok := sim.Raw(lm78, 1); !ok || v != 70 {
		t.Errorf("temp1_max raw = %v (ok=%v), want 70 despite earlier failure", v, ok)
	}
}

func TestApplySetsChipFilter(t *testing.T) {
	other := chip.Name{Prefix: "w83781d", Bus: chip.BusISA, Addr: 0x290}

	cat := testCatalog()
	cat.Add("w83781d", []catalog.Feature{
		{Number: 0, Name: "fan1_min", Mode: catalog.ModeRW, Mapping: catalog.NoMapping, ComputeMapping: catalog.NoMapping},
	})

	cfg := &config.Config{}
	cfg.Append(setsEntry(chip.Name{Prefix: chip.PrefixAny, Bus: chip.BusAny, Addr: chip.AddrAny},
		config.Set{Feature: "fan1_min", Value: expr.MustParse("1500")}))

	sim := backend.NewSim()
	sim.AddChip(lm78)
	sim.AddChip(other)
	a := New(cat, cfg, sim, sim)

	// Restrict to lm78 chips only
	if err := a.ApplySets(lm78Any); err != nil {
		t.Fatalf("ApplySets failed: %v", err)
	}
	if _, ok := sim.Raw(lm78, 4); !ok {
		t.Error("lm78 fan1_min not written")
	}
	if _, ok := sim.Raw(other, 0); ok {
		t.Error("w83781d written despite chip filter")
	}
}
