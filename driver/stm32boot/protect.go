package stm32boot

// protectCmd runs the common shape shared by WriteProtect,
// WriteUnprotect, ReadoutProtect and ReadoutUnprotect: preamble, an
// acceptance ACK, then a completion ACK. The target may self-reset
// afterwards, so the session is marked as needing re-discovery.
func (p *Programmer) protectCmd(cmd command) error {
	if err := p.ensureSupported(cmd); err != nil {
		return err
	}
	if err := p.writeCmd(cmd); err != nil {
		return err
	}
	if err := p.awaitAck(); err != nil {
		return err
	}
	if err := p.awaitAck(); err != nil {
		return err
	}
	p.supported = nil
	return nil
}

// WriteProtect enables write protection for the target's sectors.
func (p *Programmer) WriteProtect() error { return p.protectCmd(cmdWriteProtect) }

// WriteUnprotect disables write protection for all Flash sectors.
func (p *Programmer) WriteUnprotect() error { return p.protectCmd(cmdWriteUnprotect) }

// ReadoutProtect enables Flash read protection.
func (p *Programmer) ReadoutProtect() error { return p.protectCmd(cmdReadoutProtect) }

// ReadoutUnprotect disables Flash read protection.
func (p *Programmer) ReadoutUnprotect() error { return p.protectCmd(cmdReadoutUnprotect) }
