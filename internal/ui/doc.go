// Package ui implements the interactive watch view: a terminal table
// of live sensor readings refreshed on a fixed interval.
package ui
