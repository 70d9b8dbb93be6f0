package access

import (
	"go.uber.org/zap"

	"github.com/hwsense/hwsense/internal/chip"
	"github.com/hwsense/hwsense/internal/expr"
	"github.com/hwsense/hwsense/internal/logging"
	"github.com/hwsense/hwsense/internal/sensor"
)

// ApplySets executes every set directive configured for the detected
// chips matching query. query may contain wildcards.
//
// Each concrete feature is written at most once per chip per call:
// directives are visited newest-config-entry first, and the first one
// seen for a feature number wins, later duplicates are skipped. A
// directive that fails to resolve, evaluate or write is reported and
// skipped; processing always continues through the remaining
// directives and chips. The first error encountered is returned as a
// summary.
func (a *Accessor) ApplySets(query chip.Name) error {
	var firstErr error
	for _, name := range a.detector.Chips() {
		if !chip.Match(query, name) {
			continue
		}
		if err := a.applyChipSets(name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ApplyAllSets executes the set directives for every detected chip.
func (a *Accessor) ApplyAllSets() error {
	return a.ApplySets(chip.Name{Prefix: chip.PrefixAny, Bus: chip.BusAny, Addr: chip.AddrAny})
}

// applyChipSets runs the set directives for one concrete chip.
func (a *Accessor) applyChipSets(name chip.Name) error {
	var firstErr error
	record := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	done := make(map[int]bool)
	for it := a.config.Matches(name); ; {
		e := it.Next()
		if e == nil {
			break
		}
		for _, s := range e.Sets {
			f := a.catalog.LookupName(name.Prefix, s.Feature)
			if f == nil {
				logging.Warn("set directive names unknown feature",
					zap.String("chip", name.String()),
					zap.String("feature", s.Feature),
					zap.Int("line", s.Line),
				)
				record(sensor.NewDirectiveError("apply_sets", name.String(), s.Feature, nil))
				continue
			}

			// A feature already handled this run keeps its first
			// directive; duplicates from older entries are skipped.
			if done[f.Number] {
				continue
			}
			done[f.Number] = true

			value, err := expr.Eval(&chipEnv{accessor: a, name: name}, s.Value, 0)
			if err != nil {
				logging.Warn("set directive expression failed",
					zap.String("chip", name.String()),
					zap.String("feature", s.Feature),
					zap.Int("line", s.Line),
					zap.Error(err),
				)
				record(err)
				continue
			}

			if err := a.SetValue(name, f.Number, value); err != nil {
				logging.Warn("set directive write failed",
					zap.String("chip", name.String()),
					zap.String("feature", s.Feature),
					zap.Int("line", s.Line),
					zap.Error(err),
				)
				record(err)
				continue
			}

			logging.Debug("applied set directive",
				zap.String("chip", name.String()),
				zap.String("feature", s.Feature),
				zap.Float64("value", value),
			)
		}
	}
	return firstErr
}
