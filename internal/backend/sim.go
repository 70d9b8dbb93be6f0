package backend

import (
	"fmt"

	"github.com/hwsense/hwsense/internal/chip"
)

type simKey struct {
	chip    string
	feature int
}

// Sim is an in-memory backend and detector. It backs the tests and the
// demo mode of the CLI: chips are registered explicitly and raw values
// live in a plain map.
type Sim struct {
	chips    []chip.Name
	values   map[simKey]float64
	readErr  map[simKey]error
	writeErr map[simKey]error
}

// NewSim creates an empty simulated backend.
func NewSim() *Sim {
	return &Sim{
		values:   make(map[simKey]float64),
		readErr:  make(map[simKey]error),
		writeErr: make(map[simKey]error),
	}
}

// AddChip registers a detected chip. Order of registration is the
// order Chips reports.
func (s *Sim) AddChip(name chip.Name) {
	s.chips = append(s.chips, name)
}

// SetRaw sets the raw value a read will return.
func (s *Sim) SetRaw(name chip.Name, feature int, value float64) {
	s.values[simKey{name.String(), feature}] = value
}

// Raw returns the current raw value, for inspecting writes in tests.
func (s *Sim) Raw(name chip.Name, feature int) (float64, bool) {
	v, ok := s.values[simKey{name.String(), feature}]
	return v, ok
}

// FailRead makes reads of the given feature fail with err.
func (s *Sim) FailRead(name chip.Name, feature int, err error) {
	s.readErr[simKey{name.String(), feature}] = err
}

// FailWrite makes writes of the given feature fail with err.
func (s *Sim) FailWrite(name chip.Name, feature int, err error) {
	s.writeErr[simKey{name.String(), feature}] = err
}

// Chips implements the detector interface.
func (s *Sim) Chips() []chip.Name {
	return s.chips
}

// ReadRaw implements the backend read.
func (s *Sim) ReadRaw(name chip.Name, feature int) (float64, error) {
	key := simKey{name.String(), feature}
	if err := s.readErr[key]; err != nil {
		return 0, err
	}
	v, ok := s.values[key]
	if !ok {
		return 0, fmt.Errorf("no value for %s feature %d", name, feature)
	}
	return v, nil
}

// WriteRaw implements the backend write.
func (s *Sim) WriteRaw(name chip.Name, feature int, value float64) error {
	key := simKey{name.String(), feature}
	if err := s.writeErr[key]; err != nil {
		return err
	}
	s.values[key] = value
	return nil
}
