package display

import (
	"fmt"
	"image"
)

// Presenter owns the page surface and composites it into the host window.
type Presenter struct {
	host Host
	surf *PageSurface

	frame    *image.Paletted // logical copy of every rasterized page
	presents int
}

func NewPresenter(h Host) *Presenter {
	return &Presenter{
		host:  h,
		surf:  NewPageSurface(),
		frame: image.NewPaletted(image.Rect(0, 0, Width, Height), Palette),
	}
}

func (p *Presenter) Surface() *PageSurface { return p.surf }

func (p *Presenter) setHost(h Host) { p.host = h }

// WriteColumn sets the 8 pixels of column col from bits,
// bit 0 being the top row. Columns outside the display are ignored.
func (p *Presenter) WriteColumn(col int, bits byte) {
	pix := p.surf.Lock()
	defer p.surf.Unlock()
	writeColumn(pix, col, bits)
}

// WritePage writes one column per byte of cols, starting at column 0,
// and reports how many columns were written.
func (p *Presenter) WritePage(cols []byte) int {
	if len(cols) > Width {
		cols = cols[:Width]
	}
	pix := p.surf.Lock()
	defer p.surf.Unlock()
	for i, b := range cols {
		writeColumn(pix, i, b)
	}
	return len(cols)
}

func writeColumn(pix []uint8, col int, bits byte) {
	if col < 0 || col >= Width {
		return
	}
	for b := 0; b < PageHeight; b++ {
		v := Off
		if bits&(1<<b) != 0 {
			v = On
		}
		pix[b*Width+col] = v
	}
}

// RasterizeAndBlit converts the page surface to the host's format and
// draws it, magnified, into the window band of the given page.
func (p *Presenter) RasterizeAndBlit(page int) error {
	if page < 0 || page > LastPage {
		return &Error{Op: "blit", Page: page, Err: fmt.Errorf("page out of range")}
	}
	m, err := p.rasterize(page)
	if err != nil {
		return err
	}
	if err := p.host.BlitScaled(m, PageBand(page)); err != nil {
		return &Error{Op: "blit", Page: page, Err: err}
	}
	return nil
}

func (p *Presenter) rasterize(page int) (image.Image, error) {
	pix, ok := p.surf.TryLock()
	if !ok {
		return nil, &Error{Op: "convert", Page: page, Err: ErrLocked}
	}
	defer p.surf.Unlock()

	copy(p.frame.Pix[page*PageHeight*Width:(page+1)*PageHeight*Width], pix)

	if p.host == nil {
		return nil, &Error{Op: "convert", Page: page, Err: ErrNoHost}
	}
	m, err := p.host.Convert(p.surf.img)
	if err != nil {
		return nil, &Error{Op: "convert", Page: page, Err: err}
	}
	if m == nil {
		return nil, &Error{Op: "convert", Page: page, Err: fmt.Errorf("no image")}
	}
	return m, nil
}

// Present flushes the window to the screen.
func (p *Presenter) Present() error {
	if p.host == nil {
		return &Error{Op: "present", Page: -1, Err: ErrNoHost}
	}
	if err := p.host.Present(); err != nil {
		return &Error{Op: "present", Page: -1, Err: err}
	}
	p.presents++
	return nil
}

// Presents returns the number of successful presents.
func (p *Presenter) Presents() int { return p.presents }

// Frame returns a copy of the logical display as last rasterized.
func (p *Presenter) Frame() *image.Paletted {
	m := image.NewPaletted(p.frame.Rect, Palette)
	copy(m.Pix, p.frame.Pix)
	return m
}
