package display

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/mobile/event/key"
)

// MenuEvent is a u8x8 menu navigation signal.
type MenuEvent uint8

const (
	MenuNone   MenuEvent = 0
	MenuSelect MenuEvent = 80
	MenuNext   MenuEvent = 81
	MenuPrev   MenuEvent = 82
	MenuHome   MenuEvent = 83
	MenuUp     MenuEvent = 84
	MenuDown   MenuEvent = 85
)

func (e MenuEvent) String() string {
	switch e {
	case MenuNone:
		return "none"
	case MenuSelect:
		return "select"
	case MenuNext:
		return "next"
	case MenuPrev:
		return "prev"
	case MenuHome:
		return "home"
	case MenuUp:
		return "up"
	case MenuDown:
		return "down"
	}
	return fmt.Sprintf("menu(%d)", uint8(e))
}

var menuKeys = map[key.Code]MenuEvent{
	key.CodeUpArrow:     MenuUp,
	key.CodeDownArrow:   MenuDown,
	key.CodeLeftArrow:   MenuPrev,
	key.CodeRightArrow:  MenuNext,
	key.CodeReturnEnter: MenuSelect,
	key.CodeEscape:      MenuHome,
}

// MapKey returns the menu signal for a host event.
// Anything but a press of a navigation key maps to MenuNone.
func MapKey(e any) MenuEvent {
	k, ok := e.(key.Event)
	if !ok || k.Direction != key.DirPress {
		return MenuNone
	}
	return menuKeys[k.Code]
}

// NextMenuEvent waits for one host event and returns its menu signal.
// It returns MenuNone without waiting if there is no window.
func (s *Session) NextMenuEvent() MenuEvent {
	ev, err := s.WaitMenuEvent(context.Background())
	if err != nil {
		// A missing window was already reported when opening it.
		if !errors.Is(err, ErrClosed) && !errors.Is(err, ErrNoHost) {
			s.report("event", err)
		}
		return MenuNone
	}
	return ev
}

// WaitMenuEvent is like NextMenuEvent but gives up when ctx is done
// or the window is closed.
func (s *Session) WaitMenuEvent(ctx context.Context) (MenuEvent, error) {
	if !s.ensureOpen() {
		if s.closed {
			return MenuNone, ErrClosed
		}
		return MenuNone, ErrNoHost
	}
	e, err := s.host.WaitEvent(ctx)
	if err != nil {
		return MenuNone, err
	}
	return MapKey(e), nil
}

// PumpEvents keeps the host window responsive. Callers that do not
// wait for menu events should call it regularly.
func (s *Session) PumpEvents() {
	if s.host != nil {
		s.host.PumpEvents()
	}
}
