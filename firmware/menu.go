package firmware

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/nf/u8emu/display"
)

// EventSource supplies menu navigation events.
type EventSource interface {
	WaitMenuEvent(ctx context.Context) (display.MenuEvent, error)
}

// Menu is a scrolling list with a title line.
type Menu struct {
	Title string
	Items []string

	cursor int
	top    int // first visible item
}

// visible is the number of item lines below the title.
const visible = (display.Height - LineHeight) / LineHeight

func (m *Menu) Cursor() int { return m.cursor }

// Apply moves the cursor for ev and reports whether ev selected
// the item under it.
func (m *Menu) Apply(ev display.MenuEvent) (selected bool) {
	n := len(m.Items)
	if n == 0 {
		return false
	}
	switch ev {
	case display.MenuUp:
		m.cursor = (m.cursor + n - 1) % n
	case display.MenuDown:
		m.cursor = (m.cursor + 1) % n
	case display.MenuPrev:
		m.cursor -= visible
		if m.cursor < 0 {
			m.cursor = 0
		}
	case display.MenuNext:
		m.cursor += visible
		if m.cursor >= n {
			m.cursor = n - 1
		}
	case display.MenuHome:
		m.cursor = 0
	case display.MenuSelect:
		return true
	}
	switch {
	case m.cursor < m.top:
		m.top = m.cursor
	case m.cursor >= m.top+visible:
		m.top = m.cursor - visible + 1
	}
	return false
}

func (m *Menu) Draw(c *Canvas) {
	c.Clear()
	DrawText(c, (c.Bounds().Dx()-TextWidth(m.Title))/2, 0, m.Title, false)
	c.Fill(image.Rect(0, LineHeight-1, c.Bounds().Dx(), LineHeight), true)
	for i := 0; i < visible && m.top+i < len(m.Items); i++ {
		n := m.top + i
		DrawText(c, 2, LineHeight*(i+1), m.Items[n], n == m.cursor)
	}
}

// Run draws m and follows navigation events until ev is closed
// or ctx is done. Selecting an item shows it until the next event.
func (m *Menu) Run(ctx context.Context, d *Driver, ev EventSource) error {
	var c Canvas
	for {
		m.Draw(&c)
		if err := d.Flush(&c); err != nil {
			return err
		}
		e, err := ev.WaitMenuEvent(ctx)
		if err != nil {
			if errors.Is(err, display.ErrClosed) {
				return nil
			}
			return err
		}
		if !m.Apply(e) {
			continue
		}
		c.Clear()
		DrawText(&c, 2, 0, "Selected:", false)
		DrawText(&c, 2, 2*LineHeight, m.Items[m.cursor], true)
		if err := d.Flush(&c); err != nil {
			return err
		}
		if _, err := ev.WaitMenuEvent(ctx); err != nil {
			if errors.Is(err, display.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// DemoMenu returns the menu shown by the u8emu command.
func DemoMenu() *Menu {
	m := &Menu{Title: "u8emu"}
	for i := 1; i <= 8; i++ {
		m.Items = append(m.Items, fmt.Sprintf("Item %d", i))
	}
	return m
}
