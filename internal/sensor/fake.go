package sensor

import "sync"

// FakeDriver is a test double that returns scripted readings.
// Safe for concurrent use.
type FakeDriver struct {
	mu sync.Mutex

	// Readings contains scripted values; each Read consumes the next one.
	// When exhausted, the last reading repeats.
	Readings []Reading

	index int
	calls int
}

// NewFakeDriver creates a FakeDriver with the given readings.
func NewFakeDriver(readings ...Reading) *FakeDriver {
	return &FakeDriver{Readings: readings}
}

// Read returns the next scripted reading.
func (f *FakeDriver) Read() Reading {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if len(f.Readings) == 0 {
		return Failed(ErrNoData)
	}

	r := f.Readings[f.index]
	if f.index < len(f.Readings)-1 {
		f.index++
	}
	return r
}

// Calls returns how many times Read was called.
func (f *FakeDriver) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
