// Package charmap holds the two rune-keyed lookup tables the converter
// consults for every plain (non-dictionary) character it sees: the
// Sino-Vietnamese syllabic reading of a Han character, and the Vietnamese
// punctuation a Chinese punctuation mark normalizes to.
package charmap

import "sync"

// CharMaps holds the sv_readings and punctuations tables. Both are
// populated once during cold load and treated as immutable afterward; the
// mutex exists so a reload (rare, administrative) cannot race a converter
// read, not because either table churns during normal operation.
type CharMaps struct {
	mu           sync.RWMutex
	svReadings   map[rune]string
	punctuations map[rune]rune
}

// New returns an empty CharMaps, ready to be populated by a Loader.
func New() *CharMaps {
	return &CharMaps{
		svReadings:   make(map[rune]string),
		punctuations: make(map[rune]rune),
	}
}

// SetSVReadings replaces the sv_readings table wholesale.
func (c *CharMaps) SetSVReadings(m map[rune]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.svReadings = m
}

// SetPunctuations replaces the punctuations table wholesale.
func (c *CharMaps) SetPunctuations(m map[rune]rune) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.punctuations = m
}

// SVReading returns the Sino-Vietnamese reading of r, and whether one is
// known.
func (c *CharMaps) SVReading(r rune) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.svReadings[r]
	return v, ok
}

// Punctuation returns the normalized Vietnamese punctuation for r, and
// whether r is a recognized punctuation mark.
func (c *CharMaps) Punctuation(r rune) (rune, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.punctuations[r]
	return v, ok
}
