package stm32boot

import "errors"

// MassErase erases the entire Flash using the legacy (v2.x) Erase
// command's fixed mass-erase code.
func (p *Programmer) MassErase() error {
	if err := p.ensureSupported(cmdErase); err != nil {
		return err
	}
	if err := p.writeCmd(cmdErase); err != nil {
		return err
	}
	if err := p.awaitAck(); err != nil {
		return err
	}
	if err := p.writeBytes([]byte{0xFF, 0x00}); err != nil {
		return err
	}
	return p.awaitAck()
}

// EraseSelective erases exactly the given flash pages using the
// legacy (v2.x) Erase command.
func (p *Programmer) EraseSelective(pages []byte) error {
	if len(pages) == 0 || len(pages) > 256 {
		return errors.New("stm32boot: erase selective: page count out of range")
	}
	if err := p.ensureSupported(cmdErase); err != nil {
		return err
	}
	if err := p.writeCmd(cmdErase); err != nil {
		return err
	}
	if err := p.awaitAck(); err != nil {
		return err
	}
	payload := make([]byte, 1+len(pages))
	payload[0] = byte(len(pages) - 1)
	copy(payload[1:], pages)
	if err := p.writeBytesChecksum(payload); err != nil {
		return err
	}
	return p.awaitAck()
}

// ErasePages erases the half-open page range [offset, offset+count).
func (p *Programmer) ErasePages(offset, count uint8) error {
	pages := make([]byte, count)
	for i := range pages {
		pages[i] = offset + uint8(i)
	}
	return p.EraseSelective(pages)
}

// ExtendedMassErase erases the entire Flash using the v3+
// ExtendedErase command's fixed global mass-erase marker (0xFFFF).
func (p *Programmer) ExtendedMassErase() error {
	if err := p.ensureSupported(cmdExtendedErase); err != nil {
		return err
	}
	if err := p.writeCmd(cmdExtendedErase); err != nil {
		return err
	}
	if err := p.awaitAck(); err != nil {
		return err
	}
	if err := p.writeBytes([]byte{0xFF, 0xFF, 0x00}); err != nil {
		return err
	}
	return p.awaitAck()
}

// ExtendedEraseSelective erases the given flash pages using the v3+
// ExtendedErase command's two-byte page count and two-byte page
// index wire format.
func (p *Programmer) ExtendedEraseSelective(pages []uint16) error {
	if len(pages) == 0 || len(pages) > 0xFFF0 {
		return errors.New("stm32boot: extended erase selective: page count out of range")
	}
	if err := p.ensureSupported(cmdExtendedErase); err != nil {
		return err
	}
	if err := p.writeCmd(cmdExtendedErase); err != nil {
		return err
	}
	if err := p.awaitAck(); err != nil {
		return err
	}
	n := uint16(len(pages) - 1)
	payload := make([]byte, 2+2*len(pages))
	payload[0] = byte(n >> 8)
	payload[1] = byte(n)
	for i, pg := range pages {
		payload[2+2*i] = byte(pg >> 8)
		payload[2+2*i+1] = byte(pg)
	}
	if err := p.writeBytesChecksum(payload); err != nil {
		return err
	}
	return p.awaitAck()
}

// ExtendedErasePages erases the half-open page range
// [offset, offset+count) using the v3+ ExtendedErase command.
func (p *Programmer) ExtendedErasePages(offset, count uint16) error {
	pages := make([]uint16, count)
	for i := range pages {
		pages[i] = offset + uint16(i)
	}
	return p.ExtendedEraseSelective(pages)
}
