package firmware

import (
	"context"
	"image"
	"testing"

	"golang.org/x/mobile/event/key"

	"github.com/nf/u8emu/display"
	"github.com/nf/u8emu/host"
)

func TestCanvasPacking(t *testing.T) {
	var c Canvas
	c.SetPixel(0, 0, true)
	c.SetPixel(5, 15, true)
	c.SetPixel(127, 63, true)
	c.SetPixel(128, 0, true) // outside
	for _, w := range []struct {
		page, col int
		b         byte
	}{
		{0, 0, 0x01},
		{1, 5, 0x80},
		{7, 127, 0x80},
	} {
		if g := c.Page(w.page)[w.col]; g != w.b {
			t.Errorf("page %d col %d == %.2x, want %.2x", w.page, w.col, g, w.b)
		}
	}
	c.SetPixel(5, 15, false)
	if c.Pixel(5, 15) {
		t.Errorf("pixel (5, 15) still set")
	}
	c.Set(1, 1, display.Palette[display.On])
	if !c.Pixel(1, 1) {
		t.Errorf("Set with white did not light (1, 1)")
	}
	if g := c.At(1, 1); g != display.Palette[display.On] {
		t.Errorf("At(1, 1) == %v, want white", g)
	}
	c.Clear()
	if c.Pixel(0, 0) {
		t.Errorf("Clear left (0, 0) lit")
	}
}

func TestDrawText(t *testing.T) {
	var c Canvas
	DrawText(&c, 0, 0, "A", false)
	lit := 0
	for y := 0; y < LineHeight; y++ {
		for x := 0; x < 7; x++ {
			if c.Pixel(x, y) {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatalf("no pixels drawn for %q", "A")
	}
	for x := 7; x < display.Width; x++ {
		if c.Pixel(x, 5) {
			t.Fatalf("pixel (%d, 5) lit outside glyph", x)
		}
	}

	c.Clear()
	DrawText(&c, 0, 0, "", true)
	if !c.Pixel(100, 0) || !c.Pixel(0, LineHeight-1) || c.Pixel(0, LineHeight) {
		t.Errorf("inverse line not filled to exactly one line")
	}
	if g, w := TextWidth("abc"), 21; g != w {
		t.Errorf("TextWidth(%q) == %d, want %d", "abc", g, w)
	}
}

func newSession(t *testing.T) (*display.Session, *host.Memory) {
	t.Helper()
	var h *host.Memory
	s := display.NewSession(func(cfg display.WindowConfig) (display.Host, error) {
		h = host.NewMemory(cfg)
		return h, nil
	}, display.Options{Logf: t.Logf})
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	return s, h
}

func TestFlush(t *testing.T) {
	s, h := newSession(t)
	d := NewDriver(s.HandleMessage)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	var c Canvas
	pts := []image.Point{{0, 0}, {17, 9}, {64, 31}, {127, 63}}
	for _, p := range pts {
		c.SetPixel(p.X, p.Y, true)
	}
	if err := d.Flush(&c); err != nil {
		t.Fatal(err)
	}
	if g := h.Presents(); g != 1 {
		t.Errorf("Presents() == %d, want 1", g)
	}
	f := s.Frame()
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			if g, w := f.ColorIndexAt(x, y) == display.On, c.Pixel(x, y); g != w {
				t.Fatalf("frame (%d, %d) == %v, want %v", x, y, g, w)
			}
		}
	}
	if d := s.Diagnostics(); len(d) != 0 {
		t.Errorf("unexpected diagnostics: %v", d)
	}
}

func TestFlushNotAcknowledged(t *testing.T) {
	d := NewDriver(func(display.MsgKind, uint8, []byte) uint8 { return 0 })
	var c Canvas
	if err := d.Flush(&c); err == nil {
		t.Errorf("Flush succeeded without acknowledgement")
	}
	if err := d.Init(); err == nil {
		t.Errorf("Init succeeded without acknowledgement")
	}
}

func TestMenuApply(t *testing.T) {
	m := DemoMenu()
	for i, c := range []struct {
		ev     display.MenuEvent
		cursor int
		sel    bool
	}{
		{display.MenuDown, 1, false},
		{display.MenuDown, 2, false},
		{display.MenuNext, 5, false},
		{display.MenuNext, 7, false},
		{display.MenuDown, 0, false},
		{display.MenuUp, 7, false},
		{display.MenuPrev, 4, false},
		{display.MenuNone, 4, false},
		{display.MenuSelect, 4, true},
		{display.MenuHome, 0, false},
	} {
		if g := m.Apply(c.ev); g != c.sel {
			t.Errorf("step %d: Apply(%v) == %v, want %v", i, c.ev, g, c.sel)
		}
		if g := m.Cursor(); g != c.cursor {
			t.Errorf("step %d: Cursor() == %d, want %d", i, g, c.cursor)
		}
		if m.cursor < m.top || m.cursor >= m.top+visible {
			t.Errorf("step %d: cursor %d not visible from %d", i, m.cursor, m.top)
		}
	}
}

func TestMenuRun(t *testing.T) {
	s, h := newSession(t)
	d := NewDriver(s.HandleMessage)
	press := func(c key.Code) key.Event { return key.Event{Code: c, Direction: key.DirPress} }
	for _, e := range []any{
		press(key.CodeDownArrow),
		key.Event{Code: key.CodeDownArrow, Direction: key.DirRelease},
		press(key.CodeReturnEnter),
		press(key.CodeEscape), // leaves the selection screen
	} {
		h.Send(e)
	}
	h.Close()

	m := DemoMenu()
	if err := m.Run(context.Background(), d, s); err != nil {
		t.Fatal(err)
	}
	if g := m.Cursor(); g != 1 {
		t.Errorf("Cursor() == %d, want 1", g)
	}
	// Initial menu, after down, after release, selection, after escape.
	if g, w := h.Presents(), 5; g != w {
		t.Errorf("Presents() == %d, want %d", g, w)
	}
}
