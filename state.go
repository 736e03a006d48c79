package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// savedState is the on-disk record of everything the calculator remembers
// between sessions.  Every field round-trips exactly: YAML renders float64
// in shortest form that parses back to the same bits.
type savedState struct {
	Stack     []float64          `yaml:"stack"`
	Registers map[string]float64 `yaml:"registers"`
	Precision int                `yaml:"precision"`
	Shortcuts map[string]string  `yaml:"shortcuts"`
	Stats     statSums           `yaml:"stats"`
}

// loadState restores a previous session.  A missing file means default
// initialization, which New already did; a corrupt file is a real error.
func (c *Calc) loadState() error {
	if c.statePath == "" {
		return nil
	}
	data, err := os.ReadFile(c.statePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var state savedState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("state file %v: %w", c.statePath, err)
	}
	c.st.restore(state.Stack)
	if state.Registers != nil {
		c.mem = state.Registers
	}
	if state.Precision >= 0 {
		c.prec = state.Precision
	}
	if state.Shortcuts != nil {
		c.scuts = state.Shortcuts
	}
	c.stats.restore(state.Stats)
	return nil
}

func (c *Calc) saveState() error {
	if c.statePath == "" {
		return nil
	}
	data, err := yaml.Marshal(savedState{
		Stack:     c.st.snapshot(),
		Registers: c.mem,
		Precision: c.prec,
		Shortcuts: c.scuts,
		Stats:     c.stats.sums,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(c.statePath, data, 0644)
}
