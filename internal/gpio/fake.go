package gpio

import (
	"fmt"
	"sync"
)

// FakeChip is a simulated GPIO surface for tests.
// Input levels are set by the test; output levels are recorded.
// Safe for concurrent use.
type FakeChip struct {
	mu     sync.Mutex
	dirs   map[int]Direction
	levels map[int]bool
	writes map[int]int

	// Closed tracks if Close was called.
	Closed bool

	// RequestError, if set, is returned by Input and Output.
	RequestError error
}

// NewFakeChip creates an empty FakeChip.
func NewFakeChip() *FakeChip {
	return &FakeChip{
		dirs:   make(map[int]Direction),
		levels: make(map[int]bool),
		writes: make(map[int]int),
	}
}

func (f *FakeChip) request(pin int, dir Direction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RequestError != nil {
		return f.RequestError
	}
	if _, ok := f.dirs[pin]; ok {
		return fmt.Errorf("%w: %d", ErrPinInUse, pin)
	}
	f.dirs[pin] = dir
	if dir == DirectionOutput {
		f.levels[pin] = false
	}
	return nil
}

// Input configures pin as a simulated input.
func (f *FakeChip) Input(pin int) (Input, error) {
	if err := f.request(pin, DirectionInput); err != nil {
		return nil, err
	}
	return fakeLine{chip: f, pin: pin}, nil
}

// Output configures pin as a simulated output.
func (f *FakeChip) Output(pin int) (Output, error) {
	if err := f.request(pin, DirectionOutput); err != nil {
		return nil, err
	}
	return fakeLine{chip: f, pin: pin}, nil
}

// Close marks the chip as closed.
func (f *FakeChip) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// SetInput sets the level a simulated input will report.
func (f *FakeChip) SetInput(pin int, high bool) {
	f.mu.Lock()
	f.levels[pin] = high
	f.mu.Unlock()
}

// Level returns the current level of pin.
func (f *FakeChip) Level(pin int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levels[pin]
}

// Writes returns how many times the output pin was set.
func (f *FakeChip) Writes(pin int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[pin]
}

// Direction reports how pin was configured.
func (f *FakeChip) Direction(pin int) (Direction, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dirs[pin]
	return d, ok
}

type fakeLine struct {
	chip *FakeChip
	pin  int
}

func (l fakeLine) Value() bool {
	return l.chip.Level(l.pin)
}

func (l fakeLine) Set(high bool) {
	l.chip.mu.Lock()
	l.chip.levels[l.pin] = high
	l.chip.writes[l.pin]++
	l.chip.mu.Unlock()
}
