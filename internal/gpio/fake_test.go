package gpio

import (
	"errors"
	"sync"
	"testing"
)

func TestFakeChipInput(t *testing.T) {
	f := NewFakeChip()

	in, err := f.Input(DefaultPinBallSwitch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Value() {
		t.Error("expected low before SetInput")
	}

	f.SetInput(DefaultPinBallSwitch, true)
	if !in.Value() {
		t.Error("expected high after SetInput(true)")
	}

	f.SetInput(DefaultPinBallSwitch, false)
	if in.Value() {
		t.Error("expected low after SetInput(false)")
	}
}

func TestFakeChipOutput(t *testing.T) {
	f := NewFakeChip()

	out, err := f.Output(DefaultPinRedIndicator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Level(DefaultPinRedIndicator) {
		t.Error("output should start low")
	}

	out.Set(true)
	if !f.Level(DefaultPinRedIndicator) {
		t.Error("expected high after Set(true)")
	}
	out.Set(false)
	if f.Level(DefaultPinRedIndicator) {
		t.Error("expected low after Set(false)")
	}
	if got := f.Writes(DefaultPinRedIndicator); got != 2 {
		t.Errorf("Writes: got %d, want 2", got)
	}
}

func TestFakeChipDirection(t *testing.T) {
	f := NewFakeChip()
	if _, err := f.Input(5); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Output(2); err != nil {
		t.Fatal(err)
	}

	if d, ok := f.Direction(5); !ok || d != DirectionInput {
		t.Errorf("pin 5: got (%v, %v), want (input, true)", d, ok)
	}
	if d, ok := f.Direction(2); !ok || d != DirectionOutput {
		t.Errorf("pin 2: got (%v, %v), want (output, true)", d, ok)
	}
	if _, ok := f.Direction(9); ok {
		t.Error("pin 9 should not be configured")
	}
}

func TestFakeChipPinInUse(t *testing.T) {
	f := NewFakeChip()
	if _, err := f.Input(5); err != nil {
		t.Fatal(err)
	}

	_, err := f.Output(5)
	if !errors.Is(err, ErrPinInUse) {
		t.Errorf("expected ErrPinInUse, got %v", err)
	}
	_, err = f.Input(5)
	if !errors.Is(err, ErrPinInUse) {
		t.Errorf("expected ErrPinInUse, got %v", err)
	}
}

func TestFakeChipRequestError(t *testing.T) {
	f := NewFakeChip()
	f.RequestError = errors.New("simulated error")

	if _, err := f.Input(5); err == nil {
		t.Error("expected error from Input")
	}
	if _, err := f.Output(2); err == nil {
		t.Error("expected error from Output")
	}
}

func TestFakeChipClose(t *testing.T) {
	f := NewFakeChip()

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeChipConcurrentAccess(t *testing.T) {
	f := NewFakeChip()
	in, _ := f.Input(0)
	out, _ := f.Output(2)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f.SetInput(0, j%2 == 0)
				out.Set(in.Value())
			}
		}(i)
	}
	wg.Wait()

	if got := f.Writes(2); got != 400 {
		t.Errorf("Writes: got %d, want 400", got)
	}
}

func TestDirectionString(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{DirectionInput, "input"},
		{DirectionOutput, "output"},
		{Direction(7), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Direction(%d).String(): got %q, want %q", tt.d, got, tt.want)
		}
	}
}
