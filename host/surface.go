// Package host provides window back buffers and an in-memory Host
// for the display emulator.
package host

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Surface is a window back buffer in RGBA, the native format
// of every host in this module.
type Surface struct {
	RGBA *image.RGBA
}

func NewSurface(size image.Point) *Surface {
	return &Surface{RGBA: image.NewRGBA(image.Rectangle{Max: size})}
}

// Convert returns an RGBA copy of src.
func (s *Surface) Convert(src *image.Paletted) (image.Image, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, errors.New("empty source surface")
	}
	if len(src.Palette) == 0 {
		return nil, errors.New("source surface has no palette")
	}
	for _, i := range src.Pix {
		if int(i) >= len(src.Palette) {
			return nil, fmt.Errorf("pixel index %d outside %d-entry palette", i, len(src.Palette))
		}
	}
	m := image.NewRGBA(src.Bounds())
	draw.Draw(m, m.Bounds(), src, src.Bounds().Min, draw.Src)
	return m, nil
}

// BlitScaled draws src into dr, scaling with nearest-neighbour sampling.
func (s *Surface) BlitScaled(src image.Image, dr image.Rectangle) error {
	if src == nil {
		return errors.New("nil source image")
	}
	if dr.Empty() || !dr.In(s.RGBA.Bounds()) {
		return fmt.Errorf("destination %v outside window %v", dr, s.RGBA.Bounds())
	}
	draw.NearestNeighbor.Scale(s.RGBA, dr, src, src.Bounds(), draw.Src, nil)
	return nil
}

// Snapshot returns a copy of the back buffer.
func (s *Surface) Snapshot() *image.RGBA {
	m := image.NewRGBA(s.RGBA.Rect)
	copy(m.Pix, s.RGBA.Pix)
	return m
}
