package scratch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEvent is returned by ParseEventType for unsupported event names.
var ErrUnknownEvent = errors.New("unknown input event")

// EventType identifies a pointer or touch event delivered by a host.
type EventType int

const (
	PointerDown EventType = iota
	PointerMove
	PointerUp
	PointerLeave
	TouchStart
	TouchMove
	TouchEnd
	TouchCancel
)

var eventNames = map[string]EventType{
	"pointerdown":  PointerDown,
	"mousedown":    PointerDown,
	"pointermove":  PointerMove,
	"mousemove":    PointerMove,
	"pointerup":    PointerUp,
	"mouseup":      PointerUp,
	"pointerleave": PointerLeave,
	"mouseleave":   PointerLeave,
	"touchstart":   TouchStart,
	"touchmove":    TouchMove,
	"touchend":     TouchEnd,
	"touchcancel":  TouchCancel,
}

// ParseEventType maps a DOM event name to an EventType.
func ParseEventType(name string) (EventType, error) {
	t, ok := eventNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	return t, nil
}

func (t EventType) String() string {
	switch t {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case PointerLeave:
		return "pointerleave"
	case TouchStart:
		return "touchstart"
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	case TouchCancel:
		return "touchcancel"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is one input sample at a display-space position.
type Event struct {
	Type  EventType
	Point Point
}

// Response tells the host what an event did.
type Response struct {
	Erased   bool // a stroke was applied
	Revealed bool // this event triggered the reveal
	// PreventDefault asks the host to suppress scrolling for touch moves.
	PreventDefault bool
}

// Handle maps one input event onto the surface. Down and move events while
// pressing apply a stroke and then check for the reveal.
func (s *Surface) Handle(ev Event) Response {
	var resp Response
	switch ev.Type {
	case PointerDown, TouchStart:
		s.pressing = true
		resp = s.scratchAt(ev.Point)
	case PointerMove:
		if s.pressing {
			resp = s.scratchAt(ev.Point)
		}
	case TouchMove:
		resp.PreventDefault = true
		if s.pressing {
			r := s.scratchAt(ev.Point)
			resp.Erased, resp.Revealed = r.Erased, r.Revealed
		}
	case PointerUp, PointerLeave, TouchEnd, TouchCancel:
		s.pressing = false
	}
	return resp
}

// Pressing reports whether a pointer or touch is currently held down.
func (s *Surface) Pressing() bool { return s.pressing }

func (s *Surface) scratchAt(p Point) Response {
	if s.mask == nil || s.revealed {
		return Response{}
	}
	s.ApplyStroke(p)
	return Response{Erased: true, Revealed: s.CheckReveal()}
}
