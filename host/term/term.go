// Package term implements a display.Host that draws into a terminal,
// two logical rows per character cell.
package term

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/size"

	"github.com/nf/u8emu/display"
	"github.com/nf/u8emu/host"
)

type Host struct {
	*host.Surface

	scr tcell.Screen

	events  chan any
	pending host.Pending // input events held by PumpEvents
	dead    bool
	done    chan struct{}
}

// Open is a display.Opener for the controlling terminal.
func Open(cfg display.WindowConfig) (display.Host, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %v", err)
	}
	h, err := NewHost(scr, cfg)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// NewHost initializes scr and draws the window onto it.
func NewHost(scr tcell.Screen, cfg display.WindowConfig) (*Host, error) {
	if err := scr.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %v", err)
	}
	scr.HideCursor()
	scr.Clear()
	h := &Host{
		Surface: host.NewSurface(cfg.Size),
		scr:     scr,
		events:  make(chan any, 64),
		done:    make(chan struct{}),
	}
	go h.readEvents()
	return h, nil
}

func (h *Host) readEvents() {
	for {
		ev := h.scr.PollEvent()
		if ev == nil {
			return // screen finalized
		}
		e := translate(ev)
		if e == nil {
			continue
		}
		select {
		case h.events <- e:
		case <-h.done:
			return
		}
	}
}

var keyCodes = map[tcell.Key]key.Code{
	tcell.KeyUp:     key.CodeUpArrow,
	tcell.KeyDown:   key.CodeDownArrow,
	tcell.KeyLeft:   key.CodeLeftArrow,
	tcell.KeyRight:  key.CodeRightArrow,
	tcell.KeyEnter:  key.CodeReturnEnter,
	tcell.KeyEscape: key.CodeEscape,
}

// translate converts a terminal event to the equivalent
// golang.org/x/mobile event. Terminals report no key releases.
func translate(ev tcell.Event) any {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return lifecycle.Event{From: lifecycle.StageFocused, To: lifecycle.StageDead}
		}
		e := key.Event{Code: keyCodes[ev.Key()], Direction: key.DirPress}
		if ev.Key() == tcell.KeyRune {
			e.Rune = ev.Rune()
		}
		return e
	case *tcell.EventResize:
		w, h := ev.Size()
		return size.Event{WidthPx: w, HeightPx: h}
	}
	return nil
}

// handle acts on window-manager events and reports whether e is an
// input event.
func (h *Host) handle(e any) bool {
	switch e := e.(type) {
	case size.Event:
		h.scr.Sync()
		h.draw()
	case lifecycle.Event:
		if e.To == lifecycle.StageDead {
			h.dead = true
		}
	case key.Event:
		return true
	}
	return false
}

func (h *Host) WaitEvent(ctx context.Context) (any, error) {
	if e, ok := h.pending.Pop(); ok {
		return e, nil
	}
	if h.dead {
		return nil, display.ErrClosed
	}
	select {
	case e := <-h.events:
		h.handle(e)
		return e, nil
	case <-h.done:
		return nil, display.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Host) PumpEvents() {
	for {
		select {
		case e := <-h.events:
			if h.handle(e) {
				h.pending.Push(e)
			}
		default:
			return
		}
	}
}

func (h *Host) Present() error {
	if h.dead {
		return display.ErrClosed
	}
	h.draw()
	return nil
}

// draw samples one window pixel per logical pixel and renders each
// pair of logical rows as an upper half block.
func (h *Host) draw() {
	b := h.RGBA.Bounds()
	cols, rows := b.Dx()/display.Scale, b.Dy()/(2*display.Scale)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := h.RGBA.RGBAAt(x*display.Scale, 2*y*display.Scale)
			bot := h.RGBA.RGBAAt(x*display.Scale, (2*y+1)*display.Scale)
			st := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bot.R), int32(bot.G), int32(bot.B)))
			h.scr.SetContent(x, y, '▀', nil, st)
		}
	}
	h.scr.Show()
}

func (h *Host) Close() error {
	select {
	case <-h.done:
		return nil
	default:
	}
	close(h.done)
	h.dead = true
	h.scr.Fini()
	return nil
}
