package display

import "fmt"

// MsgKind is a u8x8 byte-interface message number.
type MsgKind uint8

const (
	MsgByteInit          MsgKind = 20
	MsgByteSend          MsgKind = 23
	MsgByteStartTransfer MsgKind = 24
	MsgByteEndTransfer   MsgKind = 25
	MsgByteSetDC         MsgKind = 32
)

func (k MsgKind) String() string {
	switch k {
	case MsgByteInit:
		return "init"
	case MsgByteSend:
		return "send"
	case MsgByteStartTransfer:
		return "start"
	case MsgByteEndTransfer:
		return "end"
	case MsgByteSetDC:
		return "dc"
	}
	return fmt.Sprintf("msg(%d)", uint8(k))
}

// Set page address commands occupy 0xb0 through 0xb7.
const (
	cmdSetPage    = 0xb0
	cmdSetPageEnd = cmdSetPage + Pages
)

// Msg is a protocol message as seen by a trace observer.
type Msg struct {
	Kind    MsgKind
	Arg     uint8
	Payload []byte
}

// ByteFunc is the byte-interface callback a display driver sends through.
type ByteFunc func(kind MsgKind, arg uint8, payload []byte) uint8

// HandleMessage applies one byte-interface message to the display.
// It always acknowledges with 1; failures are recorded as diagnostics.
func (s *Session) HandleMessage(kind MsgKind, arg uint8, payload []byte) uint8 {
	s.ensureOpen()

	switch kind {
	case MsgByteSend:
		n := int(arg)
		if n > len(payload) {
			n = len(payload)
		}
		if s.dataMode {
			s.sendData(payload[:n])
		} else {
			s.sendCommands(payload[:n])
		}
	case MsgByteSetDC:
		s.dataMode = arg != 0
	case MsgByteStartTransfer, MsgByteEndTransfer, MsgByteInit:
		// Nothing to set up on the host.
	}

	if t := s.opts.Trace; t != nil {
		t(Msg{kind, arg, payload})
	}
	return 1
}

// GPIOAndDelay is the GPIO and delay callback. Pins and timing
// are not emulated.
func (s *Session) GPIOAndDelay(kind MsgKind, arg uint8, payload []byte) uint8 {
	return 1
}

func (s *Session) sendCommands(cmds []byte) {
	for _, c := range cmds {
		if c >= cmdSetPage && c < cmdSetPageEnd {
			s.page = int(c - cmdSetPage)
		}
	}
}

func (s *Session) sendData(cols []byte) {
	if len(cols) < Width {
		s.report("send", fmt.Errorf("short page data: %d of %d columns", len(cols), Width))
	}
	s.pres.WritePage(cols)

	if err := s.pres.RasterizeAndBlit(s.page); err != nil {
		s.report("rasterize", err)
	}
	// The frame is shown after the last page even if that page failed.
	if s.page == LastPage && s.host != nil {
		if err := s.pres.Present(); err != nil {
			s.report("present", err)
		}
	}
}
