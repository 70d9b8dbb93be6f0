package catalog

import "strings"

// FeatureIter walks the features of one chip family grouped by feature
// family: each main feature (one without a mapping) is yielded first,
// followed by every sub-feature that maps to it, before the next main
// feature. This recovers the grouping used for display enumeration.
type FeatureIter struct {
	features []Feature
	main     int // index of the current main feature
	sub      int // scan position for sub-features of main
	started  bool
}

// Features returns an iterator over the features of the given chip
// family prefix. The iterator is valid even for unknown prefixes, in
// which case it yields nothing.
func (c *Catalog) Features(prefix string) *FeatureIter {
	for i := range c.families {
		if strings.EqualFold(c.families[i].prefix, prefix) {
			return &FeatureIter{features: c.families[i].features}
		}
	}
	return &FeatureIter{}
}

// Next returns the next feature in family-grouped order, or nil when
// the iteration is done.
func (it *FeatureIter) Next() *Feature {
	if len(it.features) == 0 {
		return nil
	}

	if !it.started {
		it.started = true
		it.main = 0
		it.sub = 0
		return &it.features[0]
	}

	// Look for further sub-features of the current main feature.
	for it.sub++; it.sub < len(it.features); it.sub++ {
		if it.features[it.sub].Mapping == it.features[it.main].Number {
			return &it.features[it.sub]
		}
	}

	// Advance to the next main feature.
	for it.main++; it.main < len(it.features); it.main++ {
		if it.features[it.main].Mapping == NoMapping {
			it.sub = it.main
			return &it.features[it.main]
		}
	}

	return nil
}
