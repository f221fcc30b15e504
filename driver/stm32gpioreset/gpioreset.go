// Package stm32gpioreset implements stm32boot.LineController by
// driving a Raspberry Pi's GPIO header directly, for bring-up rigs
// where NRST and BOOT0 are wired straight to GPIO pins instead of a
// USB-serial adapter's RTS/DTR lines.
package stm32gpioreset

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"
)

// Lines drives two GPIO pins as the RTS (reset) and DTR (boot select)
// equivalents in stm32boot's reset sequence.
type Lines struct {
	rts gpio.PinOut
	dtr gpio.PinOut
}

// Open initialises the host's GPIO subsystem and wraps the two given
// pins. rst should be wired to the target's NRST and boot0 to its
// BOOT0 pin.
func Open(rst, boot0 gpio.PinOut) (*Lines, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("stm32gpioreset: %w", err)
	}
	return &Lines{rts: rst, dtr: boot0}, nil
}

// SetRTS drives the reset pin. High resets the target, matching the
// RTS polarity stm32boot's reset sequencer assumes.
func (l *Lines) SetRTS(level bool) error {
	return l.rts.Out(gpio.Level(level))
}

// SetDTR drives the boot-select pin. High selects the bootloader.
func (l *Lines) SetDTR(level bool) error {
	return l.dtr.Out(gpio.Level(level))
}
