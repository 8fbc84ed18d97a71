package firmware

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var face = basicfont.Face7x13

// LineHeight is the height of one line of text.
const LineHeight = 13

// DrawText draws s with its top-left corner at (x, y).
// If inverse, the line is drawn dark on a lit background.
func DrawText(c *Canvas, x, y int, s string, inverse bool) {
	src := image.White
	if inverse {
		c.Fill(image.Rect(0, y, c.Bounds().Dx(), y+LineHeight), true)
		src = image.Black
	}
	d := font.Drawer{
		Dst:  c,
		Src:  src,
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(s)
}

// TextWidth returns the width of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}
