package display

import (
	"image"
	"log"
)

// Options configures a Session.
type Options struct {
	// Window is the window requested from the Opener.
	// The zero value means DefaultWindow.
	Window WindowConfig

	// Logf receives every diagnostic. Defaults to log.Printf.
	Logf func(format string, args ...any)

	// Trace, if set, is called with every protocol message
	// after it has been applied.
	Trace func(Msg)
}

// Session is the state of one emulated display and its window.
// A Session must only be used from one goroutine.
type Session struct {
	open Opener
	opts Options

	page     int
	dataMode bool

	host   Host
	closed bool
	pres   *Presenter
	diag   backlog
}

func NewSession(open Opener, opts Options) *Session {
	if opts.Window == (WindowConfig{}) {
		opts.Window = DefaultWindow
	}
	if opts.Logf == nil {
		opts.Logf = log.Printf
	}
	return &Session{
		open: open,
		opts: opts,
		pres: NewPresenter(nil),
	}
}

// Open creates the host window. Messages delivered before a successful
// Open try to open the window themselves.
func (s *Session) Open() error {
	if s.host != nil {
		return nil
	}
	if s.closed {
		return &Error{Op: "open", Page: -1, Err: ErrClosed}
	}
	if s.open == nil {
		return &Error{Op: "open", Page: -1, Err: ErrNoHost}
	}
	h, err := s.open(s.opts.Window)
	if err != nil {
		return &Error{Op: "open", Page: -1, Err: err}
	}
	s.host = h
	s.pres.setHost(h)
	return nil
}

// Close releases the host window. Only the first call has any effect.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	h := s.host
	s.host = nil
	s.pres.setHost(nil)
	if h == nil {
		return nil
	}
	return h.Close()
}

// ensureOpen opens the window on first use, recording failures.
func (s *Session) ensureOpen() bool {
	if s.host != nil {
		return true
	}
	if s.closed {
		return false
	}
	if err := s.Open(); err != nil {
		s.report("open", err)
		return false
	}
	return true
}

// Page returns the currently addressed page.
func (s *Session) Page() int { return s.page }

// DataMode reports whether sent bytes are pixel data.
func (s *Session) DataMode() bool { return s.dataMode }

// Presents returns the number of frames presented so far.
func (s *Session) Presents() int { return s.pres.Presents() }

// Presenter returns the session's presenter.
func (s *Session) Presenter() *Presenter { return s.pres }

// Frame returns a copy of the logical 128x64 display.
func (s *Session) Frame() *image.Paletted { return s.pres.Frame() }

// Diagnostic is a recorded, non-fatal failure.
type Diagnostic struct {
	Op  string
	Err error
}

// Diagnostics returns the most recent diagnostics, oldest first.
func (s *Session) Diagnostics() []Diagnostic { return s.diag.List() }

func (s *Session) report(op string, err error) {
	s.diag.Add(Diagnostic{op, err})
	s.opts.Logf("%s: %v", op, err)
}

type backlog struct {
	entries []Diagnostic
	n       int
}

const maxBacklog = 100

func (b *backlog) Add(d Diagnostic) {
	if b.n < len(b.entries) {
		b.entries[b.n] = d
	} else {
		b.entries = append(b.entries, d)
	}
	b.n = (b.n + 1) % maxBacklog
}

func (b *backlog) List() []Diagnostic {
	if len(b.entries) < maxBacklog {
		return append([]Diagnostic(nil), b.entries...)
	}
	l := make([]Diagnostic, 0, maxBacklog)
	l = append(l, b.entries[b.n:]...)
	return append(l, b.entries[:b.n]...)
}

func (b *backlog) Reset() {
	b.entries = b.entries[:0]
	b.n = 0
}

// ClearDiagnostics forgets all recorded diagnostics.
func (s *Session) ClearDiagnostics() { s.diag.Reset() }
