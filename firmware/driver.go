package firmware

import (
	"fmt"

	"github.com/nf/u8emu/display"
)

// SSD1306 commands sent by Init. The emulator only acts on page
// addressing; the rest must be accepted and ignored.
var initSequence = []byte{
	0xae,       // display off
	0xd5, 0x80, // clock divide
	0xa8, 0x3f, // multiplex ratio 64
	0xd3, 0x00, // display offset
	0x40,       // start line 0
	0x8d, 0x14, // charge pump on
	0x20, 0x02, // page addressing mode
	0xa1,       // segment remap
	0xc8,       // com scan decrement
	0xda, 0x12, // com pins
	0x81, 0xcf, // contrast
	0xd9, 0xf1, // precharge
	0xdb, 0x40, // vcom detect
	0xa4,       // resume from ram
	0xa6,       // normal display
	0xaf,       // display on
}

const (
	cmdSetPage       = 0xb0
	cmdSetColumnLow  = 0x00
	cmdSetColumnHigh = 0x10
)

// Driver sends frames through a byte-interface callback.
type Driver struct {
	send display.ByteFunc
}

func NewDriver(send display.ByteFunc) *Driver {
	return &Driver{send: send}
}

func (d *Driver) msg(kind display.MsgKind, arg uint8, payload []byte) error {
	if d.send(kind, arg, payload) == 0 {
		return fmt.Errorf("%v not acknowledged", kind)
	}
	return nil
}

func (d *Driver) commands(cmds ...byte) error {
	if err := d.msg(display.MsgByteSetDC, 0, nil); err != nil {
		return err
	}
	return d.msg(display.MsgByteSend, uint8(len(cmds)), cmds)
}

// Init resets the byte interface and sends the controller setup.
func (d *Driver) Init() error {
	if err := d.msg(display.MsgByteInit, 0, nil); err != nil {
		return err
	}
	if err := d.msg(display.MsgByteStartTransfer, 0, nil); err != nil {
		return err
	}
	if err := d.commands(initSequence...); err != nil {
		return err
	}
	return d.msg(display.MsgByteEndTransfer, 0, nil)
}

// Flush sends every page of c, top to bottom.
func (d *Driver) Flush(c *Canvas) error {
	for p := 0; p < display.Pages; p++ {
		if err := d.FlushPage(c, p); err != nil {
			return fmt.Errorf("page %d: %v", p, err)
		}
	}
	return nil
}

// FlushPage sends page p of c.
func (d *Driver) FlushPage(c *Canvas, p int) error {
	if err := d.msg(display.MsgByteStartTransfer, 0, nil); err != nil {
		return err
	}
	if err := d.commands(cmdSetPage|byte(p), cmdSetColumnLow, cmdSetColumnHigh); err != nil {
		return err
	}
	if err := d.msg(display.MsgByteSetDC, 1, nil); err != nil {
		return err
	}
	if err := d.msg(display.MsgByteSend, display.Width, c.Page(p)); err != nil {
		return err
	}
	return d.msg(display.MsgByteEndTransfer, 0, nil)
}
