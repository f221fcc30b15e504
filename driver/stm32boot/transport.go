package stm32boot

// Transport is the duplex byte channel the protocol engine is driven
// over. Implementations are expected to be thin wrappers around a
// serial port; this package never blocks inside ReadByte waiting for
// data, it polls.
type Transport interface {
	// ReadByte attempts to read one byte without blocking. ok is false
	// when no byte was available (not an error).
	ReadByte() (b byte, ok bool, err error)

	// WriteByte queues one byte for transmission. It may block until
	// the byte is accepted by the underlying driver.
	WriteByte(b byte) error

	// Flush blocks until every queued byte has been handed to the
	// driver.
	Flush() error
}

// LineController sets the level of the two modem-control lines used
// to reset the target and select bootloader vs application boot.
type LineController interface {
	SetRTS(level bool) error
	SetDTR(level bool) error
}

// Delay is a millisecond sleep primitive. The engine never assumes
// sub-millisecond accuracy.
type Delay interface {
	Sleep(ms uint32)
}
