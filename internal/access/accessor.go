package access

import (
	"fmt"
	"strings"

	"github.com/hwsense/hwsense/internal/catalog"
	"github.com/hwsense/hwsense/internal/chip"
	"github.com/hwsense/hwsense/internal/config"
	"github.com/hwsense/hwsense/internal/expr"
	"github.com/hwsense/hwsense/internal/sensor"
)

// Backend reads and writes raw feature values for concrete chips.
// Implementations are expected to be synchronous; failures surface as
// plain errors and are wrapped into the I/O error kind here.
type Backend interface {
	ReadRaw(name chip.Name, feature int) (float64, error)
	WriteRaw(name chip.Name, feature int, value float64) error
}

// Detector enumerates the concrete chips currently present on the
// system, in a stable order.
type Detector interface {
	Chips() []chip.Name
}

// Accessor resolves feature requests against the catalog and the
// configuration, and performs the actual reads and writes through the
// backend. All referenced data is read-only, so an Accessor is safe
// for concurrent use across distinct chips as long as the backend is.
type Accessor struct {
	catalog  *catalog.Catalog
	config   *config.Config
	backend  Backend
	detector Detector
}

// New builds an Accessor. detector may be nil if the bulk set
// operations are not used.
func New(cat *catalog.Catalog, cfg *config.Config, backend Backend, detector Detector) *Accessor {
	return &Accessor{catalog: cat, config: cfg, backend: backend, detector: detector}
}

// Catalog returns the feature catalog the accessor resolves against.
func (a *Accessor) Catalog() *catalog.Catalog { return a.catalog }

// GetLabel returns the configured label for a feature, scanning
// matching config entries newest-declared first. If no entry labels
// the feature, its own name is returned.
func (a *Accessor) GetLabel(name chip.Name, feature int) (string, error) {
	if name.HasWildcards() {
		return "", sensor.NewWildcardsError("get_label", name.String())
	}
	f := a.catalog.LookupNumber(name.Prefix, feature)
	if f == nil {
		return "", sensor.NewUnknownFeatureError("get_label", name.String(), featureRef(feature))
	}

	for it := a.config.Matches(name); ; {
		e := it.Next()
		if e == nil {
			break
		}
		for _, l := range e.Labels {
			if strings.EqualFold(f.Name, l.Feature) {
				return l.Text, nil
			}
		}
	}

	// No label configured, the feature's own name stands in
	return f.Name, nil
}

// GetIgnored reports whether the feature is suppressed by an ignore
// directive. An exact match on the feature's own name is authoritative
// and ends the scan; a match only on its mapping parent marks the
// feature ignored tentatively but scanning continues, so an exact
// match found later still decides first. Exact beats parent regardless
// of scan order.
func (a *Accessor) GetIgnored(name chip.Name, feature int) (bool, error) {
	if name.HasWildcards() {
		return false, sensor.NewWildcardsError("get_ignored", name.String())
	}
	f := a.catalog.LookupNumber(name.Prefix, feature)
	if f == nil {
		return false, sensor.NewUnknownFeatureError("get_ignored", name.String(), featureRef(feature))
	}

	var alt *catalog.Feature
	if f.Mapping != catalog.NoMapping {
		if alt = a.catalog.LookupNumber(name.Prefix, f.Mapping); alt == nil {
			return false, sensor.NewUnknownFeatureError("get_ignored", name.String(), featureRef(f.Mapping))
		}
	}

	ignored := false
	for it := a.config.Matches(name); ; {
		e := it.Next()
		if e == nil {
			break
		}
		for _, n := range e.Ignores {
			if strings.EqualFold(f.Name, n) {
				// Exact match always overrules
				return true, nil
			} else if alt != nil && strings.EqualFold(alt.Name, n) {
				ignored = true
			}
		}
	}
	return ignored, nil
}

// GetValue reads a feature and applies its compute conversion, if any.
// The conversion is searched newest-entry first; within the first
// entry that names the feature (or its compute-mapping parent), a
// directive for the feature itself permanently wins over one for the
// parent. Without a conversion the raw value is returned unchanged.
func (a *Accessor) GetValue(name chip.Name, feature int) (float64, error) {
	if name.HasWildcards() {
		return 0, sensor.NewWildcardsError("get_value", name.String())
	}
	f := a.catalog.LookupNumber(name.Prefix, feature)
	if f == nil {
		return 0, sensor.NewUnknownFeatureError("get_value", name.String(), featureRef(feature))
	}
	alt, err := a.computeAlt(f, "get_value", name)
	if err != nil {
		return 0, err
	}
	if !f.Mode.CanRead() {
		return 0, sensor.NewAccessError("get_value", name.String(), f.Name, false)
	}

	conv := a.findCompute(name, f, alt)

	raw, err := a.backend.ReadRaw(name, feature)
	if err != nil {
		return 0, sensor.NewIOError("get_value", name.String(), f.Name, err)
	}
	if conv == nil {
		return raw, nil
	}
	return expr.Eval(&chipEnv{accessor: a, name: name}, conv.From, raw)
}

// SetValue converts value through the applicable compute "to"
// expression (or writes it unchanged) and hands it to the backend.
func (a *Accessor) SetValue(name chip.Name, feature int, value float64) error {
	if name.HasWildcards() {
		return sensor.NewWildcardsError("set_value", name.String())
	}
	f := a.catalog.LookupNumber(name.Prefix, feature)
	if f == nil {
		return sensor.NewUnknownFeatureError("set_value", name.String(), featureRef(feature))
	}
	alt, err := a.computeAlt(f, "set_value", name)
	if err != nil {
		return err
	}
	if !f.Mode.CanWrite() {
		return sensor.NewAccessError("set_value", name.String(), f.Name, true)
	}

	toWrite := value
	if conv := a.findCompute(name, f, alt); conv != nil {
		toWrite, err = expr.Eval(&chipEnv{accessor: a, name: name}, conv.To, value)
		if err != nil {
			return err
		}
	}

	if err := a.backend.WriteRaw(name, feature, toWrite); err != nil {
		return sensor.NewIOError("set_value", name.String(), f.Name, err)
	}
	return nil
}

// computeAlt resolves the compute-mapping parent of a feature, or nil
// if the feature has none. A declared mapping whose target is missing
// from the catalog is an error.
func (a *Accessor) computeAlt(f *catalog.Feature, op string, name chip.Name) (*catalog.Feature, error) {
	if f.ComputeMapping == catalog.NoMapping {
		return nil, nil
	}
	alt := a.catalog.LookupNumber(name.Prefix, f.ComputeMapping)
	if alt == nil {
		return nil, sensor.NewUnknownFeatureError(op, name.String(), featureRef(f.ComputeMapping))
	}
	return alt, nil
}

// findCompute locates the compute directive applying to f. The entry
// scan stops at the first entry that names either f or its parent; a
// directive for f itself ends the inner scan permanently, while a
// parent directive is kept only until one for f appears.
func (a *Accessor) findCompute(name chip.Name, f, alt *catalog.Feature) *config.Compute {
	var found *config.Compute
	final := false
	for it := a.config.Matches(name); found == nil; {
		e := it.Next()
		if e == nil {
			break
		}
		for i := 0; !final && i < len(e.Computes); i++ {
			c := &e.Computes[i]
			if strings.EqualFold(f.Name, c.Feature) {
				found = c
				final = true
			} else if alt != nil && strings.EqualFold(alt.Name, c.Feature) {
				found = c
			}
		}
	}
	return found
}

// chipEnv lets expression evaluation resolve feature references by
// re-entering the accessor for the same chip. This is what makes a
// derived expression like "temp1 / 2" see the converted value of
// temp1, not its raw reading.
type chipEnv struct {
	accessor *Accessor
	name     chip.Name
}

func (e *chipEnv) FeatureValue(featureName string) (float64, error) {
	f := e.accessor.catalog.LookupName(e.name.Prefix, featureName)
	if f == nil {
		return 0, sensor.NewUnknownFeatureError("eval", e.name.String(), featureName)
	}
	return e.accessor.GetValue(e.name, f.Number)
}

func featureRef(number int) string {
	return fmt.Sprintf("#%d", number)
}
