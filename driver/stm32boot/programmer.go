package stm32boot

// Programmer is a single-threaded, single-target bootloader session.
// It owns no hardware itself; Transport, LineController and Delay are
// supplied by the caller and outlive the Programmer.
type Programmer struct {
	transport Transport
	lines     LineController
	delay     Delay
	cfg       Config

	// supported enumerates the opcodes the bootloader reported from
	// its Get response. nil until the first successful Get, and reset
	// to nil by any operation after which the target may have
	// self-reset (Go, the protect commands).
	supported map[command]bool
}

// New constructs a session over the given hardware collaborators. It
// does not touch the wire; call Connect to run reset/discover/Get.
func New(transport Transport, lines LineController, delay Delay, cfg Config) *Programmer {
	return &Programmer{
		transport: transport,
		lines:     lines,
		delay:     delay,
		cfg:       cfg,
	}
}

// Connect runs the standard bring-up sequence: reset into the
// bootloader (unless Config.NoReset), send the sync byte, then issue
// Get to learn the protocol version and supported command set.
func (p *Programmer) Connect(buf []byte) (version byte, commands []byte, err error) {
	if err := p.enterBootloader(); err != nil {
		return 0, nil, err
	}
	p.discover()
	return p.Get(buf)
}

// ensureSupported fails fast with ErrUnsupported if a prior Get
// reported a command set that does not include cmd. Before the first
// Get, nothing is known yet and every command is let through.
func (p *Programmer) ensureSupported(cmd command) error {
	if p.supported == nil {
		return nil
	}
	if !p.supported[cmd] {
		return ErrUnsupported
	}
	return nil
}

// Get fetches the bootloader protocol version and its supported
// command set into buf, which must have capacity for at least N+1
// bytes where N is the bootloader's declared payload length byte;
// that check happens before any payload byte is read. The returned
// commands slice aliases buf.
func (p *Programmer) Get(buf []byte) (version byte, commands []byte, err error) {
	if err := p.writeCmd(cmdGet); err != nil {
		return 0, nil, err
	}
	if err := p.awaitAck(); err != nil {
		return 0, nil, err
	}
	n, err := p.readChar()
	if err != nil {
		return 0, nil, err
	}
	payloadLen := int(n) + 1
	if len(buf) < payloadLen {
		return 0, nil, ErrBufferLength
	}
	for i := 0; i < payloadLen; i++ {
		b, err := p.readChar()
		if err != nil {
			return 0, nil, err
		}
		buf[i] = b
	}
	if err := p.awaitAck(); err != nil {
		return 0, nil, err
	}
	version = buf[0]
	commands = buf[1:payloadLen]
	supported := make(map[command]bool, len(commands)+1)
	supported[cmdGet] = true
	for _, c := range commands {
		supported[command(c)] = true
	}
	p.supported = supported
	return version, commands, nil
}

// GetVersionReadStatus shares Get's wire shape under a distinct
// opcode, additionally reporting the Flash read-protection status in
// the bytes following the version byte.
func (p *Programmer) GetVersionReadStatus(buf []byte) (version byte, payload []byte, err error) {
	if err := p.ensureSupported(cmdGetVersionReadStatus); err != nil {
		return 0, nil, err
	}
	if err := p.writeCmd(cmdGetVersionReadStatus); err != nil {
		return 0, nil, err
	}
	if err := p.awaitAck(); err != nil {
		return 0, nil, err
	}
	n, err := p.readChar()
	if err != nil {
		return 0, nil, err
	}
	payloadLen := int(n) + 1
	if len(buf) < payloadLen {
		return 0, nil, ErrBufferLength
	}
	for i := 0; i < payloadLen; i++ {
		b, err := p.readChar()
		if err != nil {
			return 0, nil, err
		}
		buf[i] = b
	}
	if err := p.awaitAck(); err != nil {
		return 0, nil, err
	}
	return buf[0], buf[1:payloadLen], nil
}

// GetID reads the bootloader's chip identifier, a little-endian
// integer typically two bytes wide. Bytes beyond the first four are
// still consumed off the wire but do not contribute to id.
func (p *Programmer) GetID() (id uint32, err error) {
	if err := p.ensureSupported(cmdGetID); err != nil {
		return 0, err
	}
	if err := p.writeCmd(cmdGetID); err != nil {
		return 0, err
	}
	if err := p.awaitAck(); err != nil {
		return 0, err
	}
	n, err := p.readChar()
	if err != nil {
		return 0, err
	}
	payloadLen := int(n) + 1
	for i := 0; i < payloadLen; i++ {
		b, err := p.readChar()
		if err != nil {
			return 0, err
		}
		if i < 4 {
			id |= uint32(b) << (8 * i)
		}
	}
	if err := p.awaitAck(); err != nil {
		return 0, err
	}
	return id, nil
}
