// Package firmware is the device side of the emulated display: a page
// packed framebuffer, a driver that flushes it over the u8x8 byte
// interface, and a small menu program.
package firmware

import (
	"image"
	"image/color"

	"github.com/nf/u8emu/display"
)

// Canvas is a monochrome framebuffer stored the way the display
// controller wants it: one byte per column per page, bit 0 on top.
type Canvas struct {
	buf [display.Pages][display.Width]byte
}

func (c *Canvas) ColorModel() color.Model { return display.Palette }

func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, display.Width, display.Height)
}

func (c *Canvas) At(x, y int) color.Color {
	if c.Pixel(x, y) {
		return display.Palette[display.On]
	}
	return display.Palette[display.Off]
}

// Set lights the pixel if c is closer to white than to black.
func (c *Canvas) Set(x, y int, col color.Color) {
	c.SetPixel(x, y, display.Palette.Index(col) == int(display.On))
}

func (c *Canvas) Pixel(x, y int) bool {
	if !(image.Point{x, y}.In(c.Bounds())) {
		return false
	}
	return c.buf[y/display.PageHeight][x]&(1<<(y%display.PageHeight)) != 0
}

func (c *Canvas) SetPixel(x, y int, on bool) {
	if !(image.Point{x, y}.In(c.Bounds())) {
		return
	}
	bit := byte(1 << (y % display.PageHeight))
	if on {
		c.buf[y/display.PageHeight][x] |= bit
	} else {
		c.buf[y/display.PageHeight][x] &^= bit
	}
}

// Fill sets every pixel in r.
func (c *Canvas) Fill(r image.Rectangle, on bool) {
	r = r.Intersect(c.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.SetPixel(x, y, on)
		}
	}
}

func (c *Canvas) Clear() {
	c.buf = [display.Pages][display.Width]byte{}
}

// Page returns the column bytes of page p.
func (c *Canvas) Page(p int) []byte { return c.buf[p][:] }
