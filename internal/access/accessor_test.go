package access

import (
	"errors"
	"strings"
	"testing"

	"github.com/hwsense/hwsense/internal/backend"
	"github.com/hwsense/hwsense/internal/catalog"
	"github.com/hwsense/hwsense/internal/chip"
	"github.com/hwsense/hwsense/internal/config"
	"github.com/hwsense/hwsense/internal/expr"
	"github.com/hwsense/hwsense/internal/sensor"
)

var (
	lm78     = chip.Name{Prefix: "lm78", Bus: chip.Bus(0), Addr: 0x2d}
	wildcard = chip.Name{Prefix: "lm78", Bus: chip.BusAny, Addr: chip.AddrAny}
)

// testCatalog: temp1 (main), temp1_max (mapped and compute-mapped to
// temp1), temp1_alarm (mapped only), fan1 read-only, fan1_min
// write-capable, plus a broken feature whose compute mapping points
// nowhere.
func testCatalog() *catalog.Catalog {
	c := &catalog.Catalog{}
	c.Add("lm78", []catalog.Feature{
		{Number: 0, Name: "temp1", Mode: catalog.ModeRW, Mapping: catalog.NoMapping, ComputeMapping: catalog.NoMapping},
		{Number: 1, Name: "temp1_max", Mode: catalog.ModeRW, Mapping: 0, ComputeMapping: 0},
		{Number: 2, Name: "temp1_alarm", Mode: catalog.ModeR, Mapping: 0, ComputeMapping: catalog.NoMapping},
		{Number: 3, Name: "fan1", Mode: catalog.ModeR, Mapping: catalog.NoMapping, ComputeMapping: catalog.NoMapping},
		{Number: 4, Name: "fan1_min", Mode: catalog.ModeRW, Mapping: 3, ComputeMapping: 3},
		{Number: 5, Name: "broken", Mode: catalog.ModeR, Mapping: catalog.NoMapping, ComputeMapping: 99},
		{Number: 6, Name: "wo", Mode: catalog.ModeW, Mapping: catalog.NoMapping, ComputeMapping: catalog.NoMapping},
	})
	return c
}

func entry(t *testing.T, pattern string) *config.Entry {
	t.Helper()
	n, err := chip.Parse(pattern)
	if err != nil {
		t.Fatalf("chip.Parse(%q) failed: %v", pattern, err)
	}
	return &config.Entry{Patterns: []chip.Name{n}}
}

func newAccessor(cfg *config.Config, sim *backend.Sim) *Accessor {
	return New(testCatalog(), cfg, sim, sim)
}

func TestWildcardQueriesRejected(t *testing.T) {
	a := newAccessor(&config.Config{}, backend.NewSim())

	if _, err := a.GetLabel(wildcard, 0); !sensor.IsWildcards(err) {
		t.Errorf("GetLabel error = %v, want wildcards kind", err)
	}
	if _, err := a.GetIgnored(wildcard, 0); !sensor.IsWildcards(err) {
		t.Errorf("GetIgnored error = %v, want wildcards kind", err)
	}
	if _, err := a.GetValue(wildcard, 0); !sensor.IsWildcards(err) {
		t.Errorf("GetValue error = %v, want wildcards kind", err)
	}
	if err := a.SetValue(wildcard, 0, 1); !sensor.IsWildcards(err) {
		t.Errorf("SetValue error = %v, want wildcards kind", err)
	}
}

func TestUnknownFeatureRejected(t *testing.T) {
	a := newAccessor(&config.Config{}, backend.NewSim())

	if _, err := a.GetLabel(lm78, 99); !sensor.IsUnknownFeature(err) {
		t.Errorf("GetLabel error = %v, want unknown-feature kind", err)
	}
	// Declared compute mapping with a missing target is also fatal
	if _, err := a.GetValue(lm78, 5); !sensor.IsUnknownFeature(err) {
		t.Errorf("GetValue(broken) error = %v, want unknown-feature kind", err)
	}
}

func TestGetLabel(t *testing.T) {
	cfg := &config.Config{}

	e1 := entry(t, "lm78-*")
	e1.Labels = []config.Label{{Feature: "temp1", Text: "Old Label"}}
	cfg.Append(e1)

	e2 := entry(t, "lm78-i2c-*-2d")
	e2.Labels = []config.Label{{Feature: "TEMP1", Text: "CPU Temp"}}
	cfg.Append(e2)

	a := newAccessor(cfg, backend.NewSim())

	// Last-declared entry wins, name compare case-insensitive
	got, err := a.GetLabel(lm78, 0)
	if err != nil {
		t.Fatalf("GetLabel failed: %v", err)
	}
	if got != "CPU Temp" {
		t.Errorf("GetLabel = %q, want %q (last declared wins)", got, "CPU Temp")
	}

	// Unlabeled feature falls back to its own name
	got, err = a.GetLabel(lm78, 3)
	if err != nil {
		t.Fatalf("GetLabel failed: %v", err)
	}
	if got != "fan1" {
		t.Errorf("GetLabel = %q, want feature name fan1", got)
	}
}

func TestGetIgnored(t *testing.T) {
	newCfg := func(entries ...*config.Entry) *Accessor {
		cfg := &config.Config{}
		for _, e := range entries {
			cfg.Append(e)
		}
		return newAccessor(cfg, backend.NewSim())
	}

	t.Run("default is visible", func(t *testing.T) {
		a := newCfg()
		ignored, err := a.GetIgnored(lm78, 1)
		if err != nil {
			t.Fatalf("GetIgnored failed: %v", err)
		}
		if ignored {
			t.Error("GetIgnored = true with empty config, want false")
		}
	})

	t.Run("exact name match", func(t *testing.T) {
		e := entry(t, "lm78-*")
		e.Ignores = []string{"temp1_max"}
		a := newCfg(e)
		ignored, err := a.GetIgnored(lm78, 1)
		if err != nil {
			t.Fatalf("GetIgnored failed: %v", err)
		}
		if !ignored {
			t.Error("GetIgnored = false, want true for exact match")
		}
	})

	t.Run("mapping parent match", func(t *testing.T) {
		// Ignoring temp1 also suppresses its mapped sub-features
		e := entry(t, "lm78-*")
		e.Ignores = []string{"temp1"}
		a := newCfg(e)

		for _, feature := range []int{1, 2} {
			ignored, err := a.GetIgnored(lm78, feature)
			if err != nil {
				t.Fatalf("GetIgnored(%d) failed: %v", feature, err)
			}
			if !ignored {
				t.Errorf("GetIgnored(%d) = false, want true via mapping parent", feature)
			}
		}
	})

	t.Run("exact match beats parent regardless of entry order", func(t *testing.T) {
		// Newest entry only matches through the parent; an older
		// entry has the exact name. Exact still decides.
		older := entry(t, "lm78-*")
		older.Ignores = []string{"temp1_max"}
		newer := entry(t, "lm78-*")
		newer.Ignores = []string{"temp1"}
		a := newCfg(older, newer)

		ignored, err := a.GetIgnored(lm78, 1)
		if err != nil {
			t.Fatalf("GetIgnored failed: %v", err)
		}
		if !ignored {
			t.Error("GetIgnored = false, want true")
		}
	})

	t.Run("unrelated names do not suppress", func(t *testing.T) {
		e := entry(t, "lm78-*")
		e.Ignores = []string{"fan1", "in0"}
		a := newCfg(e)
		ignored, err := a.GetIgnored(lm78, 1)
		if err != nil {
			t.Fatalf("GetIgnored failed: %v", err)
		}
		if ignored {
			t.Error("GetIgnored = true, want false for unrelated ignores")
		}
	})
}

func TestGetValueRawWithoutCompute(t *testing.T) {
	sim := backend.NewSim()
	sim.SetRaw(lm78, 0, 42000)
	a := newAccessor(&config.Config{}, sim)

	got, err := a.GetValue(lm78, 0)
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if got != 42000 {
		t.Errorf("GetValue = %v, want raw 42000", got)
	}
}

func TestGetValueAppliesCompute(t *testing.T) {
	e := &config.Entry{
		Patterns: []chip.Name{{Prefix: "lm78", Bus: chip.BusAny, Addr: chip.AddrAny}},
		Computes: []config.Compute{{
			Feature: "temp1",
			From:    expr.MustParse("@/1000"),
			To:      expr.MustParse("@*1000"),
		}},
	}
	cfg := &config.Config{}
	cfg.Append(e)

	sim := backend.NewSim()
	sim.SetRaw(lm78, 0, 42000)
	sim.SetRaw(lm78, 1, 60000)
	a := newAccessor(cfg, sim)

	got, err := a.GetValue(lm78, 0)
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if got != 42 {
		t.Errorf("GetValue = %v, want 42 (converted)", got)
	}

	// temp1_max shares temp1's expression through its compute mapping
	got, err = a.GetValue(lm78, 1)
	if err != nil {
		t.Fatalf("GetValue(temp1_max) failed: %v", err)
	}
	if got != 60 {
		t.Errorf("GetValue(temp1_max) = %v, want 60 (via compute mapping)", got)
	}
}

func TestGetValueMainDirectiveBeatsParent(t *testing.T) {
	// One entry computes both temp1 and temp1_max; temp1_max must use
	// its own directive even though the parent's appears first.
	e := &config.Entry{
		Patterns: []chip.Name{{Prefix: "lm78", Bus: chip.BusAny, Addr: chip.AddrAny}},
		Computes: []config.Compute{
			{Feature: "temp1", From: expr.MustParse("@/1000"), To: expr.MustParse("@*1000")},
			{Feature: "temp1_max", From: expr.MustParse("@/100"), To: expr.MustParse("@*100")},
		},
	}
	cfg := &config.Config{}
	cfg.Append(e)

	sim := backend.NewSim()
	sim.SetRaw(lm78, 1, 6000)
	a := newAccessor(cfg, sim)

	got, err := a.GetValue(lm78, 1)
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if got != 60 {
		t.Errorf("GetValue = %v, want 60 (own directive, not parent's)", got)
	}
}

func TestGetValueVariableReference(t *testing.T) {
	// fan1's conversion references temp1, which has its own
	// conversion; the reference must see the converted value.
	e := &config.Entry{
		Patterns: []chip.Name{{Prefix: "lm78", Bus: chip.BusAny, Addr: chip.AddrAny}},
		Computes: []config.Compute{
			{Feature: "temp1", From: expr.MustParse("@/1000"), To: expr.MustParse("@*1000")},
			{Feature: "fan1", From: expr.MustParse("@+temp1"), To: expr.MustParse("@-temp1")},
		},
	}
	cfg := &config.Config{}
	cfg.Append(e)

	sim := backend.NewSim()
	sim.SetRaw(lm78, 0, 42000)
	sim.SetRaw(lm78, 3, 1000)
	a := newAccessor(cfg, sim)

	got, err := a.GetValue(lm78, 3)
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if got != 1042 {
		t.Errorf("GetValue = %v, want 1042 (raw 1000 + converted temp1 42)", got)
	}
}

func TestGetValueAccessDenied(t *testing.T) {
	sim := backend.NewSim()
	sim.SetRaw(lm78, 6, 1)
	a := newAccessor(&config.Config{}, sim)

	if _, err := a.GetValue(lm78, 6); !sensor.IsAccess(err) {
		t.Errorf("GetValue of write-only feature error = %v, want access kind", err)
	}
}

func TestGetValueIOError(t *testing.T) {
	sim := backend.NewSim()
	sim.FailRead(lm78, 0, errors.New("bus stuck"))
	a := newAccessor(&config.Config{}, sim)

	_, err := a.GetValue(lm78, 0)
	if !sensor.IsIO(err) {
		t.Fatalf("GetValue error = %v, want io kind", err)
	}
	if !strings.Contains(err.Error(), "bus stuck") {
		t.Errorf("io error %q should carry the backend cause", err)
	}
}

func TestSetValue(t *testing.T) {
	e := &config.Entry{
		Patterns: []chip.Name{{Prefix: "lm78", Bus: chip.BusAny, Addr: chip.AddrAny}},
		Computes: []config.Compute{
			{Feature: "temp1", From: expr.MustParse("@/1000"), To: expr.MustParse("@*1000")},
		},
	}
	cfg := &config.Config{}
	cfg.Append(e)

	sim := backend.NewSim()
	a := newAccessor(cfg, sim)

	// The "to" expression converts back to raw units before writing
	if err := a.SetValue(lm78, 1, 60); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if v, _ := sim.Raw(lm78, 1); v != 60000 {
		t.Errorf("raw value after SetValue = %v, want 60000", v)
	}

	// Read-only feature rejects writes
	if err := a.SetValue(lm78, 3, 1); !sensor.IsAccess(err) {
		t.Errorf("SetValue of read-only feature error = %v, want access kind", err)
	}

	// Without a compute directive the value is written unchanged
	if err := a.SetValue(lm78, 6, 7); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if v, _ := sim.Raw(lm78, 6); v != 7 {
		t.Errorf("raw value = %v, want 7 unchanged", v)
	}
}

func TestSetValueWriteError(t *testing.T) {
	sim := backend.NewSim()
	sim.FailWrite(lm78, 4, errors.New("readonly fs"))
	a := newAccessor(&config.Config{}, sim)

	if err := a.SetValue(lm78, 4, 1000); !sensor.IsIO(err) {
		t.Errorf("SetValue error = %v, want io kind", err)
	}
}
