// Package display emulates a 128x64 monochrome page-addressed display
// driven by the u8x8 byte protocol, rendering it into a host window.
package display

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Logical display geometry.
const (
	Width      = 128
	Height     = 64
	PageHeight = 8
	Pages      = Height / PageHeight
	LastPage   = Pages - 1

	// Scale is the magnification from logical pixels to window pixels.
	Scale = 2
)

// Off and On are the two palette indexes of the page surface.
const (
	Off uint8 = 0
	On  uint8 = 1
)

// Palette maps Off to black and On to white.
// It is shared by every surface and must not be modified.
var Palette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff},
	color.RGBA{0xff, 0xff, 0xff, 0xff},
}

var (
	ErrLocked = errors.New("surface is locked")
	ErrClosed = errors.New("host window closed")
	ErrNoHost = errors.New("no host window")
)

// Error describes a failed display operation.
type Error struct {
	Op   string // convert, blit, present, open
	Page int    // -1 when not page specific
	Err  error
}

func (e *Error) Error() string {
	if e.Page >= 0 {
		return fmt.Sprintf("display %s page %d: %v", e.Op, e.Page, e.Err)
	}
	return fmt.Sprintf("display %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Host is the windowing capability set the emulator draws through.
type Host interface {
	// Convert returns src converted to the window's native pixel format.
	Convert(src *image.Paletted) (image.Image, error)
	// BlitScaled composites src into dr of the window's back buffer,
	// scaling with nearest-neighbour sampling.
	BlitScaled(src image.Image, dr image.Rectangle) error
	// Present flushes the back buffer to the screen.
	Present() error
	// WaitEvent blocks until a host event is available.
	// Events are golang.org/x/mobile/event values.
	WaitEvent(ctx context.Context) (any, error)
	// PumpEvents services pending window-manager events
	// without consuming input events.
	PumpEvents()
	Close() error
}

// WindowConfig describes the window a Host should open.
type WindowConfig struct {
	Title string
	Size  image.Point
}

// DefaultWindow is the 2x magnified window for the logical display.
var DefaultWindow = WindowConfig{
	Title: "u8emu",
	Size:  image.Point{Width * Scale, Height * Scale},
}

// Opener creates a Host window.
type Opener func(WindowConfig) (Host, error)

// PageBand returns the window rectangle covered by the given page.
func PageBand(page int) image.Rectangle {
	h := PageHeight * Scale
	return image.Rect(0, page*h, Width*Scale, (page+1)*h)
}
