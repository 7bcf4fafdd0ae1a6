package main

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"flyff-farm-bot/internal/clock"
	"flyff-farm-bot/internal/combat"
	"flyff-farm-bot/internal/geom"
	"flyff-farm-bot/internal/slots"
)

var _ combat.Movement = (*MovementCoordinator)(nil)

type fakeInput struct {
	events []string
	err    error
}

func (f *fakeInput) SendKey(key string, mode KeyMode) error {
	f.events = append(f.events, mode.String()+":"+key)
	return f.err
}

func (f *fakeInput) SendSlot(bar, slot int) error {
	f.events = append(f.events, fmt.Sprintf("slot:%d-%d", bar, slot))
	return f.err
}

func (f *fakeInput) Click(x, y int) error {
	f.events = append(f.events, fmt.Sprintf("click:%d,%d", x, y))
	return f.err
}

func (f *fakeInput) TypeText(text string) error {
	f.events = append(f.events, "type:"+text)
	return f.err
}

func newCoordinator() (*MovementCoordinator, *fakeInput, *clock.Mock) {
	in := &fakeInput{}
	clk := clock.NewMock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewMovementCoordinator(in, clk), in, clk
}

func TestHoldKeyFor(t *testing.T) {
	mc, in, clk := newCoordinator()
	mc.HoldKeyFor("right", 50*time.Millisecond)

	if want := []string{"hold:right", "release:right"}; !slices.Equal(in.events, want) {
		t.Fatalf("events = %v, want %v", in.events, want)
	}
	if clk.Slept() != 50*time.Millisecond {
		t.Fatalf("slept %v, want 50ms", clk.Slept())
	}
}

func TestHoldAndReleaseArePaced(t *testing.T) {
	mc, in, clk := newCoordinator()
	mc.HoldKeys([]string{"w", "space"})
	mc.ReleaseKeys([]string{"space", "w"})

	want := []string{"hold:w", "hold:space", "release:space", "release:w"}
	if !slices.Equal(in.events, want) {
		t.Fatalf("events = %v, want %v", in.events, want)
	}
	if clk.Slept() != 4*keyPacing {
		t.Fatalf("slept %v, want %v", clk.Slept(), 4*keyPacing)
	}
}

func TestUseSlot(t *testing.T) {
	mc, in, _ := newCoordinator()
	mc.UseSlot(slots.Ref{Bar: 2, Index: 7})
	mc.UseSlot(slots.Ref{Bar: 9, Index: 0})

	if want := []string{"slot:2-7"}; !slices.Equal(in.events, want) {
		t.Fatalf("events = %v, want %v", in.events, want)
	}
}

func TestBackendErrorsAreSwallowed(t *testing.T) {
	mc, in, _ := newCoordinator()
	in.err = errors.New("page gone")

	mc.PressKey("z")
	mc.ClickTarget(geom.Pt(10, 20))

	if want := []string{"press:z", "click:10,20"}; !slices.Equal(in.events, want) {
		t.Fatalf("events = %v, want %v", in.events, want)
	}
}

func TestEscapeJavaScriptString(t *testing.T) {
	tests := []struct{ in, want string }{
		{"hello", "hello"},
		{"it's", `it\'s`},
		{`a\b`, `a\\b`},
		{"line\nbreak\r", `line\nbreak\r`},
	}
	for _, tt := range tests {
		if got := escapeJavaScriptString(tt.in); got != tt.want {
			t.Errorf("escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
