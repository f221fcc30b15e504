package stm32boot

import (
	"errors"
	"testing"
)

// TestReadMemoryNack mirrors spec scenario 8: the bootloader nacks a
// protected read and the caller's buffer is left untouched.
func TestReadMemoryNack(t *testing.T) {
	ft := &fakeTransport{toRead: []byte{ack, ack, nack}}
	p := newProgrammer(ft, &fakeLines{}, &fakeDelay{}, DefaultConfig())
	buf := []byte{0xAA, 0xAA, 0xAA, 0xAA}
	orig := append([]byte(nil), buf...)
	err := p.readMemoryBlock(0x08000000, buf)
	if !errors.Is(err, ErrNack) {
		t.Fatalf("readMemoryBlock() = %v, want ErrNack", err)
	}
	for i := range buf {
		if buf[i] != orig[i] {
			t.Fatalf("buffer modified after NACK: %v", buf)
		}
	}
}
