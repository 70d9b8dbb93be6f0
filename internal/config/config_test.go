package config

import (
	"testing"

	"github.com/hwsense/hwsense/internal/chip"
	"github.com/hwsense/hwsense/internal/expr"
)

func mustName(t *testing.T, s string) chip.Name {
	t.Helper()
	n, err := chip.Parse(s)
	if err != nil {
		t.Fatalf("chip.Parse(%q) failed: %v", s, err)
	}
	return n
}

func TestMatchesNewestFirst(t *testing.T) {
	cfg := &Config{}
	e1 := &Entry{Patterns: []chip.Name{mustName(t, "lm78-*")}}
	e2 := &Entry{Patterns: []chip.Name{mustName(t, "w83781d-*")}}
	e3 := &Entry{Patterns: []chip.Name{mustName(t, "lm78-i2c-*-2d")}}
	cfg.Append(e1)
	cfg.Append(e2)
	cfg.Append(e3)

	query := mustName(t, "lm78-i2c-0-2d")

	it := cfg.Matches(query)
	if got := it.Next(); got != e3 {
		t.Errorf("first match = %p, want most recent entry e3", got)
	}
	if got := it.Next(); got != e1 {
		t.Errorf("second match = %p, want e1", got)
	}
	if got := it.Next(); got != nil {
		t.Errorf("third match = %p, want nil", got)
	}
	// Exhausted iterators stay exhausted
	if got := it.Next(); got != nil {
		t.Errorf("Next after nil = %p, want nil", got)
	}
}

func TestMatchesNoEntries(t *testing.T) {
	cfg := &Config{}
	if got := cfg.Matches(mustName(t, "lm78-isa-0290")).Next(); got != nil {
		t.Errorf("Next() on empty config = %v, want nil", got)
	}
}

func TestMatchesAnyPatternInSet(t *testing.T) {
	cfg := &Config{}
	e := &Entry{Patterns: []chip.Name{
		mustName(t, "w83781d-isa-0290"),
		mustName(t, "lm78-isa-*"),
	}}
	cfg.Append(e)

	if got := cfg.Matches(mustName(t, "lm78-isa-0290")).Next(); got != e {
		t.Errorf("entry should match through its second pattern")
	}
	if got := cfg.Matches(mustName(t, "lm80-isa-0290")).Next(); got != nil {
		t.Errorf("entry matched %v, want no match", got)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
chips:
  - match:
      - lm78-*
    labels:
      - feature: temp1
        text: CPU Temp
      - feature: in0
        text: VCore
    ignore:
      - in5
      - in6
    compute:
      - feature: temp2
        from: "@*0.1"
        to: "@/0.1"
    set:
      - feature: fan1_min
        value: "3000"
  - match:
      - w83781d-isa-0290
    labels:
      - feature: temp3
        text: SYS Temp
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cfg.Len())
	}

	e := cfg.Matches(mustName(t, "lm78-i2c-0-2d")).Next()
	if e == nil {
		t.Fatal("no entry matched lm78-i2c-0-2d")
	}

	if len(e.Labels) != 2 || e.Labels[0].Feature != "temp1" || e.Labels[0].Text != "CPU Temp" {
		t.Errorf("labels = %+v, want temp1/CPU Temp first", e.Labels)
	}
	if len(e.Ignores) != 2 || e.Ignores[0] != "in5" {
		t.Errorf("ignores = %v, want [in5 in6]", e.Ignores)
	}
	if len(e.Computes) != 1 {
		t.Fatalf("computes = %+v, want one entry", e.Computes)
	}

	got, err := expr.Eval(nil, e.Computes[0].From, 250)
	if err != nil {
		t.Fatalf("eval from expression: %v", err)
	}
	if got != 25 {
		t.Errorf("from expression of 250 = %v, want 25", got)
	}

	if len(e.Sets) != 1 || e.Sets[0].Feature != "fan1_min" {
		t.Fatalf("sets = %+v, want fan1_min", e.Sets)
	}
	if e.Sets[0].Line == 0 {
		t.Error("set directive line = 0, want source line recorded")
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "invalid yaml", data: ":\n  - ]["},
		{name: "missing match", data: "chips:\n  - labels:\n      - feature: temp1\n        text: x"},
		{name: "bad chip pattern", data: "chips:\n  - match: [lm78]"},
		{name: "bad expression", data: "chips:\n  - match: [lm78-*]\n    compute:\n      - feature: temp1\n        from: \"@*\"\n        to: \"@\""},
		{name: "set without feature", data: "chips:\n  - match: [lm78-*]\n    set:\n      - value: \"1\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("Parse succeeded, want error")
			}
		})
	}
}
