// Package stm32boot implements the host side of ST's AN3155 USART
// bootloader protocol: command framing, the ACK/NACK handshake, the
// reset-and-discover sequence that syncs with the target's autobaud
// logic, and chunked reads and writes of on-chip flash and RAM.
//
// The package owns none of the hardware. Callers supply a Transport
// (a duplex byte channel with non-blocking reads), a LineController
// (RTS/DTR level control) and a Delay (millisecond sleep), and get
// back a Programmer that drives the wire protocol over them.
package stm32boot
