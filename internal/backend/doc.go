// Package backend implements the raw value sources the access layer
// reads from and writes to.
//
// Sysfs is the real one: it scans the kernel hwmon class tree once,
// detecting chips, deriving their bus position from the device
// symlink, and synthesizing the feature catalog from the attribute
// files present. Raw values pass through unscaled; unit conversion is
// the job of the compute directives in the configuration.
//
// Sim is an in-memory stand-in used by the tests and the CLI demo
// mode.
package backend
