package main

import (
	"fmt"
	"image"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/u8emu/display"
	"github.com/nf/u8emu/trace"
)

type debugView struct {
	log   *tview.TextView
	frame *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	mu      sync.Mutex
	verbose bool // log every message
	msgs    int
	stopped bool
}

func newDebugView(exit func()) *debugView {
	d := &debugView{
		log: tview.NewTextView().
			SetMaxLines(1000),
		frame: tview.NewTextView().
			SetWrap(false),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.frame.SetBackgroundColor(tcell.ColorBlack)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.frame, display.Width+2, 0, false).
		AddItem(d.log, 0, 1, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 1, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := d.input.GetText()
		if cmd == "" {
			return
		}
		d.input.SetText("")
		switch cmd {
		case "exit", "q", "quit":
			d.Stop()
			exit()
		case "v", "verbose":
			d.mu.Lock()
			d.verbose = !d.verbose
			v := d.verbose
			d.mu.Unlock()
			log.Printf("verbose %v", v)
		case "clear":
			d.log.Clear()
		default:
			log.Printf("unknown command %q (exit, verbose, clear)", cmd)
		}
	})
	return d
}

func (d *debugView) Run() error { return d.app.Run() }

// Stop stops the view. Trace does nothing after Stop.
func (d *debugView) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.app.Stop()
}

// Trace is called on the session's goroutine after each message.
func (d *debugView) Trace(s *display.Session, m display.Msg) {
	d.mu.Lock()
	d.msgs++
	n, verbose, stopped := d.msgs, d.verbose, d.stopped
	d.mu.Unlock()
	if stopped {
		return
	}

	if verbose {
		log.Print(traceLine(m))
	}
	if m.Kind != display.MsgByteSend || !s.DataMode() {
		return
	}
	var (
		state = stateMsg(s, n)
		frame string
	)
	if s.Page() == display.LastPage {
		frame = frameText(s.Frame())
	}
	d.app.QueueUpdateDraw(func() {
		// Highlight the state line when a frame completes.
		if frame != "" {
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		} else {
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		}
		d.state.SetText(state)
		if frame != "" {
			d.frame.SetText(frame)
		}
	})
}

func stateMsg(s *display.Session, msgs int) string {
	mode := "cmd "
	if s.DataMode() {
		mode = "data"
	}
	return fmt.Sprintf("page %d  %s  msgs %d  presents %d  diagnostics %d",
		s.Page(), mode, msgs, s.Presents(), len(s.Diagnostics()))
}

func traceLine(m display.Msg) string {
	var b strings.Builder
	w := trace.NewWriter(&b)
	w.Write(m)
	if err := w.Flush(); err != nil {
		return err.Error()
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// frameText renders m with one half block character per two rows.
func frameText(m *image.Paletted) string {
	var (
		b      strings.Builder
		bounds = m.Bounds()
	)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := m.ColorIndexAt(x, y) == display.On
			bot := y+1 < bounds.Max.Y && m.ColorIndexAt(x, y+1) == display.On
			switch {
			case top && bot:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bot:
				b.WriteRune('▄')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
