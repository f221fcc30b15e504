package stm32boot

// Go jumps the target to user code at addr, in Flash or SRAM. The
// bootloader session is effectively over: the target has left the
// bootloader, and any further command will fail until a fresh reset.
func (p *Programmer) Go(addr uint32) error {
	if err := p.ensureSupported(cmdGo); err != nil {
		return err
	}
	if err := p.writeCmd(cmdGo); err != nil {
		return err
	}
	if err := p.awaitAck(); err != nil {
		return err
	}
	if err := p.writeAddress(addr); err != nil {
		return err
	}
	if err := p.awaitAck(); err != nil {
		return err
	}
	p.supported = nil
	return nil
}
