package stm32boot

import "encoding/binary"

// MaxBlockSize is the AN3155 MTU: the largest memory block a single
// ReadMemory/WriteMemory transaction may carry.
const MaxBlockSize = 256

// chunkSize is the block size the range operations split into. It is
// well under MaxBlockSize and lines up with common STM32 flash row
// sizes.
const chunkSize = 128

// writeAddress writes a 32-bit big-endian address followed by its
// XOR checksum byte, then flushes.
func (p *Programmer) writeAddress(addr uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], addr)
	return p.writeBytesChecksum(b[:])
}

// readMemoryBlock reads len(buf) bytes (1..MaxBlockSize) from addr in
// a single ReadMemory transaction. There is no trailing ACK for the
// payload itself.
func (p *Programmer) readMemoryBlock(addr uint32, buf []byte) error {
	if len(buf) == 0 || len(buf) > MaxBlockSize {
		return ErrBufferLength
	}
	if err := p.ensureSupported(cmdReadMemory); err != nil {
		return err
	}
	if err := p.writeCmd(cmdReadMemory); err != nil {
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
	n := byte(len(buf) - 1)
	if err := p.writeBytes([]byte{n, ^n}); err != nil {
		return err
	}
	if err := p.awaitAck(); err != nil {
		return err
	}
	for i := range buf {
		b, err := p.readChar()
		if err != nil {
			return err
		}
		buf[i] = b
	}
	return nil
}

// writeMemoryBlock writes data (1..MaxBlockSize bytes) to addr in a
// single WriteMemory transaction.
func (p *Programmer) writeMemoryBlock(addr uint32, data []byte) error {
	if len(data) == 0 || len(data) > MaxBlockSize {
		return ErrBufferLength
	}
	if err := p.ensureSupported(cmdWriteMemory); err != nil {
		return err
	}
	if err := p.writeCmd(cmdWriteMemory); err != nil {
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
	payload := make([]byte, 1+len(data))
	payload[0] = byte(len(data) - 1)
	copy(payload[1:], data)
	if err := p.writeBytesChecksum(payload); err != nil {
		return err
	}
	return p.awaitAck()
}

// chunkRange calls fn once per chunkSize-aligned block of buf,
// running addr forward by the actual slice length each time so the
// final, possibly short, block lands at the right address.
func chunkRange(addr uint32, buf []byte, fn func(addr uint32, block []byte) error) error {
	for o := 0; o < len(buf); o += chunkSize {
		end := o + chunkSize
		if end > len(buf) {
			end = len(buf)
		}
		if err := fn(addr+uint32(o), buf[o:end]); err != nil {
			return err
		}
	}
	return nil
}

// ReadMemory reads len(buf) bytes starting at addr, split into
// chunkSize-byte transactions.
func (p *Programmer) ReadMemory(addr uint32, buf []byte) error {
	return chunkRange(addr, buf, p.readMemoryBlock)
}

// WriteMemory writes data starting at addr, split into chunkSize-byte
// transactions.
func (p *Programmer) WriteMemory(addr uint32, data []byte) error {
	return chunkRange(addr, data, p.writeMemoryBlock)
}
