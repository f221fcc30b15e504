//go:build linux

// Package serial implements the stm32boot Transport and
// LineController contracts over a Linux tty: raw 8E1 (even parity) data I/O
// and RTS/DTR modem-control bits, both done with direct ioctls rather
// than a higher-level serial library, since driving RTS/DTR is the
// one thing this protocol cannot do without.
package serial

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Port is a non-blocking duplex tty with RTS/DTR control, suitable
// for stm32boot.Transport and stm32boot.LineController.
type Port struct {
	fd int
}

// Open opens path at baud with 8 data bits, even parity, one stop
// bit, and puts the fd in non-blocking mode so Transport.ReadByte
// never blocks the caller.
func Open(path string, baud uint32) (*Port, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", path, err)
	}
	speed, err := baudSpeed(baud)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("serial: get attrs: %w", err)
	}
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARODD | unix.CSTOPB | unix.CRTSCTS
	t.Cflag |= unix.CS8 | unix.CLOCAL | unix.CREAD | unix.PARENB | speed
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("serial: set attrs: %w", err)
	}
	return &Port{fd: fd}, nil
}

func baudSpeed(baud uint32) (uint32, error) {
	switch baud {
	case 9600:
		return unix.B9600, nil
	case 19200:
		return unix.B19200, nil
	case 38400:
		return unix.B38400, nil
	case 57600:
		return unix.B57600, nil
	case 115200:
		return unix.B115200, nil
	default:
		return 0, fmt.Errorf("serial: unsupported baud rate %d", baud)
	}
}

// ReadByte satisfies stm32boot.Transport: EAGAIN/EWOULDBLOCK is
// reported as ok=false rather than an error.
func (p *Port) ReadByte() (byte, bool, error) {
	var b [1]byte
	n, err := unix.Read(p.fd, b[:])
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, false, nil
		}
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	return b[0], true, nil
}

// WriteByte spins through EAGAIN so the call blocks until the byte is
// actually queued, matching the Transport contract.
func (p *Port) WriteByte(b byte) error {
	buf := [1]byte{b}
	for {
		_, err := unix.Write(p.fd, buf[:])
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			continue
		}
		return err
	}
}

// Flush drains the output queue (TCSBRK with arg 1 is Linux's tcdrain
// equivalent).
func (p *Port) Flush() error {
	return unix.IoctlSetInt(p.fd, unix.TCSBRK, 1)
}

// SetRTS sets or clears the RTS modem-control bit.
func (p *Port) SetRTS(level bool) error {
	return p.setModemLine(unix.TIOCM_RTS, level)
}

// SetDTR sets or clears the DTR modem-control bit.
func (p *Port) SetDTR(level bool) error {
	return p.setModemLine(unix.TIOCM_DTR, level)
}

func (p *Port) setModemLine(bit int, level bool) error {
	req := unix.TIOCMBIC
	if level {
		req = unix.TIOCMBIS
	}
	return unix.IoctlSetPointerInt(p.fd, uint(req), bit)
}

func (p *Port) Close() error {
	return unix.Close(p.fd)
}
