package display

import (
	"image"
	"sync"
)

// PageSurface holds one page of pixels, one byte per pixel,
// indexing into Palette.
type PageSurface struct {
	mu     sync.Mutex
	locked bool
	img    *image.Paletted
}

func NewPageSurface() *PageSurface {
	return &PageSurface{
		img: image.NewPaletted(image.Rect(0, 0, Width, PageHeight), Palette),
	}
}

// Lock grants exclusive access to the pixel memory until Unlock.
// Pixels are laid out row-major with a stride of Width.
func (p *PageSurface) Lock() []uint8 {
	p.mu.Lock()
	p.locked = true
	return p.img.Pix
}

// TryLock is like Lock but fails instead of waiting
// when the pixel memory is already held.
func (p *PageSurface) TryLock() ([]uint8, bool) {
	if !p.mu.TryLock() {
		return nil, false
	}
	p.locked = true
	return p.img.Pix, true
}

func (p *PageSurface) Unlock() {
	p.locked = false
	p.mu.Unlock()
}

// Locked reports whether the pixel memory is currently held.
func (p *PageSurface) Locked() bool { return p.locked }

// Image returns the surface's backing image.
// Its pixels must not be read while the surface is locked.
func (p *PageSurface) Image() *image.Paletted { return p.img }

// At returns the palette index at column x, row y.
func (p *PageSurface) At(x, y int) uint8 {
	return p.img.ColorIndexAt(x, y)
}
