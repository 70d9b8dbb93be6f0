// Package access orchestrates feature resolution: it ties the chip
// matcher, the feature catalog, the configuration and the raw backend
// together into the get-label, get-ignored, get-value, set-value and
// bulk-set operations.
//
// All operations require a concrete chip name; wildcard queries are
// rejected up front. Config entries are consulted newest-declared
// first, so the last matching definition in the configuration wins.
// Single operations fail fast with the first error; the bulk set
// executor instead reports per-directive failures, keeps going, and
// returns only the first error as a summary.
//
// The package defines the Backend and Detector interfaces it consumes;
// concrete implementations live in the backend package.
package access
