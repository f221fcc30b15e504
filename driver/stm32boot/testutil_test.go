package stm32boot

import "errors"

// fakeTransport is a scripted bootloader: toRead is pre-loaded with
// the exact response bytes the test expects the bootloader to send,
// and written records every byte the engine writes for the test to
// assert against. Since the engine drives the wire strictly
// sequentially, scripting the full response up front is enough to
// exercise any scenario without a reactive simulator goroutine.
type fakeTransport struct {
	toRead  []byte
	written []byte
	err     error

	// blockReads, when > 0, makes ReadByte report would-block this
	// many times before ever returning a byte or running out.
	blockReads int
}

func (f *fakeTransport) ReadByte() (byte, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	if f.blockReads > 0 {
		f.blockReads--
		return 0, false, nil
	}
	if len(f.toRead) == 0 {
		return 0, false, nil
	}
	b := f.toRead[0]
	f.toRead = f.toRead[1:]
	return b, true, nil
}

func (f *fakeTransport) WriteByte(b byte) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, b)
	return nil
}

func (f *fakeTransport) Flush() error {
	return f.err
}

// fakeDelay never actually sleeps; it just records the requested
// durations so tests run instantly regardless of configured timeouts.
type fakeDelay struct {
	slept []uint32
}

func (d *fakeDelay) Sleep(ms uint32) {
	d.slept = append(d.slept, ms)
}

// fakeLines records RTS/DTR transitions for assertions on the reset
// sequence.
type fakeLines struct {
	events []string
}

func (l *fakeLines) SetRTS(level bool) error {
	l.events = append(l.events, boolEvent("RTS", level))
	return nil
}

func (l *fakeLines) SetDTR(level bool) error {
	l.events = append(l.events, boolEvent("DTR", level))
	return nil
}

func boolEvent(name string, level bool) string {
	if level {
		return name + "=1"
	}
	return name + "=0"
}

var errBroken = errors.New("fake transport: broken")

func newProgrammer(t *fakeTransport, l *fakeLines, d *fakeDelay, cfg Config) *Programmer {
	return New(t, l, d, cfg)
}
