// Package gui implements a display.Host on a shiny window.
package gui

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/nf/u8emu/display"
	"github.com/nf/u8emu/host"
)

// Host is a shiny window with a back buffer that is drawn into by the
// emulator and copied to the window on Present.
//
// Window events are read by a background goroutine but are only acted
// upon by WaitEvent and PumpEvents, so all drawing happens on the
// caller's goroutine.
type Host struct {
	*host.Surface

	w   screen.Window
	buf screen.Buffer
	tex screen.Texture
	sz  size.Event

	events  chan any
	pending host.Pending // input events held by PumpEvents
	dead    bool
	done    chan struct{}
	stopped chan struct{} // closed when readEvents returns
}

// Opener returns a display.Opener that creates windows on s.
func Opener(s screen.Screen) display.Opener {
	return func(cfg display.WindowConfig) (display.Host, error) {
		h, err := Open(s, cfg)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
}

func Open(s screen.Screen, cfg display.WindowConfig) (*Host, error) {
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Title:  cfg.Title,
		Width:  cfg.Size.X,
		Height: cfg.Size.Y,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %v", err)
	}
	h := &Host{
		Surface: host.NewSurface(cfg.Size),
		w:       w,
		sz:      size.Event{WidthPx: cfg.Size.X, HeightPx: cfg.Size.Y},
		events:  make(chan any, 64),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	if h.buf, err = s.NewBuffer(cfg.Size); err != nil {
		w.Release()
		return nil, fmt.Errorf("creating buffer: %v", err)
	}
	if h.tex, err = s.NewTexture(cfg.Size); err != nil {
		h.buf.Release()
		w.Release()
		return nil, fmt.Errorf("creating texture: %v", err)
	}
	go h.readEvents()
	return h, nil
}

// stopEvent wakes readEvents so that it returns on Close.
type stopEvent struct{}

func (h *Host) readEvents() {
	defer close(h.stopped)
	for {
		e := h.w.NextEvent()
		if _, ok := e.(stopEvent); ok {
			return
		}
		select {
		case h.events <- e:
		case <-h.done:
			return
		}
	}
}

// handle acts on window-manager events and reports whether e is a key
// event, the only kind worth holding for WaitEvent.
func (h *Host) handle(e any) bool {
	switch e := e.(type) {
	case size.Event:
		h.sz = e
		if e.WidthPx+e.HeightPx == 0 {
			h.dead = true
		}
	case paint.Event:
		h.publish()
	case lifecycle.Event:
		if e.To == lifecycle.StageDead {
			h.dead = true
		}
	case key.Event:
		return true
	case error:
		log.Print(e)
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
	copy(h.buf.RGBA().Pix, h.RGBA.Pix)
	h.publish()
	return nil
}

func (h *Host) publish() {
	if h.dead {
		return
	}
	h.tex.Upload(image.Point{}, h.buf, h.buf.Bounds())
	h.w.Scale(h.sz.Bounds(), h.tex, h.tex.Bounds(), draw.Src, nil)
	h.w.Publish()
}

func (h *Host) Close() error {
	select {
	case <-h.done:
		return nil
	default:
	}
	close(h.done)
	h.dead = true
	h.w.Send(stopEvent{})
	<-h.stopped
	h.tex.Release()
	h.buf.Release()
	h.w.Release()
	return nil
}
