package scratch_test

import (
	"errors"
	"testing"

	"github.com/lazzyms/scratch-reveal-deals/internal/scratch"
)

func at(t scratch.EventType, x, y float64) scratch.Event {
	return scratch.Event{Type: t, Point: scratch.Point{X: x, Y: y}}
}

func TestHandle_MoveWithoutPressIsIgnored(t *testing.T) {
	s := newSurface(t, 300, 200)

	resp := s.Handle(at(scratch.PointerMove, 150, 100))
	if resp.Erased {
		t.Error("expected hover move not to erase")
	}
	if cov := s.MeasureCoverage(); cov != 0 {
		t.Errorf("expected zero coverage, got %.2f", cov)
	}
}

func TestHandle_PressDragRelease(t *testing.T) {
	s := newSurface(t, 300, 200)

	if resp := s.Handle(at(scratch.PointerDown, 50, 50)); !resp.Erased {
		t.Error("expected pointer down to erase")
	}
	if !s.Pressing() {
		t.Fatal("expected pressing after pointer down")
	}
	afterDown := s.MeasureCoverage()

	if resp := s.Handle(at(scratch.PointerMove, 150, 50)); !resp.Erased {
		t.Error("expected drag to erase")
	}
	afterMove := s.MeasureCoverage()
	if afterMove <= afterDown {
		t.Errorf("expected drag to grow coverage: %.2f -> %.2f", afterDown, afterMove)
	}

	if resp := s.Handle(at(scratch.PointerUp, 150, 50)); resp.Erased {
		t.Error("expected release not to erase")
	}
	s.Handle(at(scratch.PointerMove, 250, 150))
	if got := s.MeasureCoverage(); got != afterMove {
		t.Errorf("expected move after release to be ignored: %.2f -> %.2f", afterMove, got)
	}
}

func TestHandle_LeaveEndsPress(t *testing.T) {
	s := newSurface(t, 300, 200)

	s.Handle(at(scratch.PointerDown, 50, 50))
	s.Handle(at(scratch.PointerLeave, 0, 0))
	if s.Pressing() {
		t.Error("expected leave to end pressing")
	}
}

func TestHandle_TouchMovePreventsDefault(t *testing.T) {
	s := newSurface(t, 300, 200)

	resp := s.Handle(at(scratch.TouchMove, 10, 10))
	if !resp.PreventDefault {
		t.Error("expected touch move to prevent scrolling")
	}
	if resp.Erased {
		t.Error("expected touch move without touch start not to erase")
	}

	s.Handle(at(scratch.TouchStart, 100, 100))
	resp = s.Handle(at(scratch.TouchMove, 120, 100))
	if !resp.PreventDefault || !resp.Erased {
		t.Errorf("expected erasing touch move with prevent default, got %+v", resp)
	}

	s.Handle(at(scratch.TouchEnd, 120, 100))
	if s.Pressing() {
		t.Error("expected touch end to end pressing")
	}
}

func TestHandle_RevealFiresOnceAcrossEvents(t *testing.T) {
	calls := 0
	s := newSurface(t, 300, 200, scratch.WithOnReveal(func() { calls++ }))

	reveals := 0
	s.Handle(at(scratch.PointerDown, 0, 0))
	for y := 0.0; y <= 200; y += 20 {
		for x := 0.0; x <= 300; x += 20 {
			if s.Handle(at(scratch.PointerMove, x, y)).Revealed {
				reveals++
			}
			// Re-press in case the reveal ended the gesture.
			if s.Handle(at(scratch.PointerDown, x, y)).Revealed {
				reveals++
			}
		}
	}

	if reveals != 1 || calls != 1 {
		t.Errorf("expected one reveal and one callback, got %d reveals, %d callbacks", reveals, calls)
	}
	if resp := s.Handle(at(scratch.PointerDown, 10, 10)); resp.Erased {
		t.Error("expected strokes after reveal to be no-ops")
	}
}

func TestParseEventType(t *testing.T) {
	tests := map[string]scratch.EventType{
		"pointerdown":  scratch.PointerDown,
		"mousedown":    scratch.PointerDown,
		"PointerMove":  scratch.PointerMove,
		" mouseup ":    scratch.PointerUp,
		"pointerleave": scratch.PointerLeave,
		"touchstart":   scratch.TouchStart,
		"touchmove":    scratch.TouchMove,
		"touchend":     scratch.TouchEnd,
		"touchcancel":  scratch.TouchCancel,
	}
	for name, want := range tests {
		got, err := scratch.ParseEventType(name)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("%q: expected %s, got %s", name, want, got)
		}
	}

	if _, err := scratch.ParseEventType("click"); !errors.Is(err, scratch.ErrUnknownEvent) {
		t.Errorf("expected ErrUnknownEvent, got %v", err)
	}
}
