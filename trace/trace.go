// Package trace reads and writes u8x8 byte-interface message traces.
//
// A trace has one message per line:
//
//	init
//	start
//	dc 0
//	send b3 00 10
//	end
//
// Blank lines and text following '#' are ignored.
// Send payloads are zero or more hexadecimal bytes separated by spaces.
package trace

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nf/u8emu/display"
)

var kinds = map[string]display.MsgKind{
	"init":  display.MsgByteInit,
	"start": display.MsgByteStartTransfer,
	"end":   display.MsgByteEndTransfer,
	"dc":    display.MsgByteSetDC,
	"send":  display.MsgByteSend,
}

// Parse reads a trace.
func Parse(r io.Reader) ([]display.Msg, error) {
	var (
		msgs []display.Msg
		s    = bufio.NewScanner(r)
		line = 0
	)
	for s.Scan() {
		line++
		m, ok, err := parseLine(s.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		if ok {
			msgs = append(msgs, m)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return msgs, nil
}

func parseLine(l string) (m display.Msg, ok bool, err error) {
	if i := strings.IndexByte(l, '#'); i >= 0 {
		l = l[:i]
	}
	f := strings.Fields(l)
	if len(f) == 0 {
		return m, false, nil
	}
	kind, known := kinds[f[0]]
	if !known {
		return m, false, fmt.Errorf("unknown message %q", f[0])
	}
	m.Kind = kind
	args := f[1:]
	switch kind {
	case display.MsgByteSetDC:
		if len(args) != 1 {
			return m, false, fmt.Errorf("dc takes one argument")
		}
		v, err := strconv.ParseUint(args[0], 10, 1)
		if err != nil {
			return m, false, fmt.Errorf("dc: %v", err)
		}
		m.Arg = uint8(v)
	case display.MsgByteSend:
		if len(args) > 0xff {
			return m, false, fmt.Errorf("send takes at most 255 bytes, got %d", len(args))
		}
		if len(args) == 0 {
			// An empty send still redraws the page in data mode.
			break
		}
		m.Payload = make([]byte, len(args))
		for i, a := range args {
			b, err := hex.DecodeString(a)
			if err != nil || len(b) != 1 {
				return m, false, fmt.Errorf("send: bad byte %q", a)
			}
			m.Payload[i] = b[0]
		}
		m.Arg = uint8(len(args))
	default:
		if len(args) != 0 {
			return m, false, fmt.Errorf("%s takes no arguments", f[0])
		}
	}
	return m, true, nil
}

// Writer writes messages in trace format.
type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends m to the trace. Once a write fails,
// all further writes are dropped and Flush reports the error.
func (w *Writer) Write(m display.Msg) {
	if w.err != nil {
		return
	}
	switch m.Kind {
	case display.MsgByteSetDC:
		_, w.err = fmt.Fprintf(w.w, "dc %d\n", m.Arg)
	case display.MsgByteSend:
		n := int(m.Arg)
		if n > len(m.Payload) {
			n = len(m.Payload)
		}
		var b strings.Builder
		b.WriteString("send")
		for _, c := range m.Payload[:n] {
			fmt.Fprintf(&b, " %.2x", c)
		}
		b.WriteByte('\n')
		_, w.err = w.w.WriteString(b.String())
	default:
		_, w.err = fmt.Fprintf(w.w, "%v\n", m.Kind)
	}
}

func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// Play sends msgs through f in order.
func Play(msgs []display.Msg, f display.ByteFunc) error {
	for i, m := range msgs {
		if f(m.Kind, m.Arg, m.Payload) == 0 {
			return fmt.Errorf("message %d (%v) not acknowledged", i+1, m.Kind)
		}
	}
	return nil
}
