// Package sensor holds the error taxonomy shared by the sensor access
// packages.
//
// Every operation in the access layer fails with a *sensor.Error carrying
// an ErrorKind category. The kinds mirror the failure modes of the
// resolution pipeline: wildcard rejection, catalog misses, access-mode
// violations, numeric domain errors from expression evaluation, raw
// backend I/O failures, and non-fatal config directive errors.
//
// Use the IsXxx helpers (or errors.As with *sensor.Error) to branch on
// the category; Unwrap exposes any underlying cause.
package sensor
