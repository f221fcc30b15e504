package stm32boot

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriteCmdPreamble(t *testing.T) {
	for _, cmd := range []command{cmdGet, cmdReadMemory, cmdWriteMemory, cmdErase, cmdGo} {
		ft := &fakeTransport{}
		p := newProgrammer(ft, &fakeLines{}, &fakeDelay{}, DefaultConfig())
		if err := p.writeCmd(cmd); err != nil {
			t.Fatalf("writeCmd(%#x): %v", cmd, err)
		}
		want := []byte{byte(cmd), 0xFF ^ byte(cmd)}
		if !bytes.Equal(ft.written, want) {
			t.Errorf("cmd %#x: wire = % x, want % x", cmd, ft.written, want)
		}
	}
}

func TestWriteBytesChecksum(t *testing.T) {
	data := []byte{0x08, 0x00, 0x00, 0x00}
	var want byte
	for _, b := range data {
		want ^= b
	}
	ft := &fakeTransport{}
	p := newProgrammer(ft, &fakeLines{}, &fakeDelay{}, DefaultConfig())
	if err := p.writeBytesChecksum(data); err != nil {
		t.Fatal(err)
	}
	if got := ft.written[len(ft.written)-1]; got != want {
		t.Errorf("trailing checksum = %#x, want %#x", got, want)
	}
	if !bytes.Equal(ft.written[:len(data)], data) {
		t.Errorf("data bytes = % x, want % x", ft.written[:len(data)], data)
	}
}

func TestWriteAddress(t *testing.T) {
	ft := &fakeTransport{}
	p := newProgrammer(ft, &fakeLines{}, &fakeDelay{}, DefaultConfig())
	if err := p.writeAddress(0x08000000); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x08, 0x00, 0x00, 0x00, 0x08}
	if !bytes.Equal(ft.written, want) {
		t.Errorf("wire = % x, want % x", ft.written, want)
	}
}

func TestAwaitAck(t *testing.T) {
	tests := []struct {
		name    string
		toRead  []byte
		wantErr error
	}{
		{"ack", []byte{ack}, nil},
		{"nack", []byte{nack}, ErrNack},
		{"garbage", []byte{0x42}, ErrInvalidResponse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ft := &fakeTransport{toRead: tc.toRead}
			p := newProgrammer(ft, &fakeLines{}, &fakeDelay{}, DefaultConfig())
			err := p.awaitAck()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("awaitAck() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("awaitAck() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestReadCharTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResponseTimeoutMS = 30
	cfg.PollDelayMS = 10
	ft := &fakeTransport{} // no bytes ever arrive
	d := &fakeDelay{}
	p := newProgrammer(ft, &fakeLines{}, d, cfg)
	_, err := p.readChar()
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("readChar() = %v, want ErrTimeout", err)
	}
	var total uint32
	for _, s := range d.slept {
		total += s
	}
	if total > cfg.ResponseTimeoutMS+cfg.PollDelayMS {
		t.Errorf("slept %dms total, want <= %dms", total, cfg.ResponseTimeoutMS+cfg.PollDelayMS)
	}
	if total <= cfg.ResponseTimeoutMS {
		t.Errorf("slept %dms total, want > %dms (exclusive bound)", total, cfg.ResponseTimeoutMS)
	}
}

func TestReadCharSerialError(t *testing.T) {
	ft := &fakeTransport{err: errBroken}
	p := newProgrammer(ft, &fakeLines{}, &fakeDelay{}, DefaultConfig())
	_, err := p.readChar()
	var pe *ProtocolError
	if !errors.As(err, &pe) || pe.Kind != KindSerial || !errors.Is(pe.Cause, errBroken) {
		t.Fatalf("readChar() = %v, want wrapped errBroken", err)
	}
}

func TestReadCharWouldBlockThenData(t *testing.T) {
	ft := &fakeTransport{blockReads: 3, toRead: []byte{0x42}}
	p := newProgrammer(ft, &fakeLines{}, &fakeDelay{}, DefaultConfig())
	b, err := p.readChar()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x42 {
		t.Errorf("readChar() = %#x, want 0x42", b)
	}
}
