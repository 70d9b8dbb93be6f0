// Package catalog holds the static table of known features per chip
// family.
//
// The catalog is built once, before any lookups, and is read-only for
// the life of the process. Features are looked up by chip prefix plus
// feature number or name; both are linear scans over the family, which
// is small. Sub-features carry a mapping link to their parent feature
// (used for label and ignore resolution) and optionally a
// compute-mapping link to the feature whose conversion expression they
// share.
//
// The package also classifies feature names into semantic categories
// (temperature limit, fan fault, voltage alarm, ...) from the
// base-word/index/suffix structure of the name.
package catalog
