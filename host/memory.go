package host

import (
	"context"
	"image"
	"sync"

	"github.com/nf/u8emu/display"
)

// Memory is a Host without a screen. Presented frames are kept in memory
// and events are supplied with Send.
type Memory struct {
	*Surface

	mu       sync.Mutex
	screen   *image.RGBA
	presents int
	pumps    int

	events    chan any
	closed    chan struct{}
	closeOnce sync.Once
}

func NewMemory(cfg display.WindowConfig) *Memory {
	return &Memory{
		Surface: NewSurface(cfg.Size),
		screen:  image.NewRGBA(image.Rectangle{Max: cfg.Size}),
		events:  make(chan any, 64),
		closed:  make(chan struct{}),
	}
}

// OpenMemory is a display.Opener for Memory hosts.
func OpenMemory(cfg display.WindowConfig) (display.Host, error) {
	return NewMemory(cfg), nil
}

// Send queues a host event, blocking if the queue is full.
func (m *Memory) Send(e any) {
	select {
	case m.events <- e:
	case <-m.closed:
	}
}

func (m *Memory) Present() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.screen.Pix, m.RGBA.Pix)
	m.presents++
	return nil
}

// Screen returns a copy of the last presented frame.
func (m *Memory) Screen() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := image.NewRGBA(m.screen.Rect)
	copy(s.Pix, m.screen.Pix)
	return s
}

func (m *Memory) Presents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presents
}

func (m *Memory) Pumps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pumps
}

func (m *Memory) WaitEvent(ctx context.Context) (any, error) {
	// Queued events win over a concurrent close.
	select {
	case e := <-m.events:
		return e, nil
	default:
	}
	select {
	case e := <-m.events:
		return e, nil
	case <-m.closed:
		return nil, display.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Memory) PumpEvents() {
	m.mu.Lock()
	m.pumps++
	m.mu.Unlock()
}

func (m *Memory) Close() error {
	m.closeOnce.Do(func() { close(m.closed) })
	return nil
}
