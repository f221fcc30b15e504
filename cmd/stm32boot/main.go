//go:build linux

// command stm32boot is a minimal command-line driver for the AN3155
// USART bootloader, exercising the stm32boot engine end to end.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"stm32loader.dev/driver/stm32boot"
	"stm32loader.dev/serial"
)

var (
	port              = flag.String("port", "/dev/ttyUSB0", "serial port")
	baud              = flag.Uint("baud", 57600, "serial baud rate")
	noReset           = flag.Bool("no-reset", false, "skip the reset sequence on connect")
	responseTimeoutMS = flag.Uint("response-timeout-ms", 100, "bootloader response timeout, in ms")
	pollDelayMS       = flag.Uint("poll-delay-ms", 10, "poll interval while awaiting a response, in ms")
	initDelayMS       = flag.Uint("init-delay-ms", 100, "delay after reset before autobaud, in ms")
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s [flags] <command> [args]

commands:
  get                                          bootloader version and supported commands
  get-id                                       target chip ID
  read -offset HEX -length N -file PATH        read memory into a file
  write -offset HEX -file PATH                 write a file to memory
  erase -offset N -count N                     erase a page range
  erase-all                                    mass-erase flash
  go -offset HEX                               jump to user code
  write-protect | write-unprotect
  readout-protect | readout-unprotect

flags:
`, os.Args[0])
	flag.PrintDefaults()
}

type sleeper struct{}

func (sleeper) Sleep(ms uint32) { time.Sleep(time.Duration(ms) * time.Millisecond) }

func run() error {
	args := flag.Args()
	if len(args) == 0 {
		usage()
		return errors.New("stm32boot: no command given")
	}

	dev, err := serial.Open(*port, uint32(*baud))
	if err != nil {
		return fmt.Errorf("stm32boot: open %s: %w", *port, err)
	}
	defer dev.Close()

	cfg := stm32boot.DefaultConfig()
	cfg.NoReset = *noReset
	cfg.ResponseTimeoutMS = uint32(*responseTimeoutMS)
	cfg.PollDelayMS = uint32(*pollDelayMS)
	cfg.InitDelayMS = uint32(*initDelayMS)

	prog := stm32boot.New(dev, dev, sleeper{}, cfg)
	buf := make([]byte, stm32boot.MaxBlockSize)
	version, commands, err := prog.Connect(buf)
	if err != nil {
		return fmt.Errorf("stm32boot: connect: %w", err)
	}
	fmt.Fprintf(os.Stderr, "stm32boot: bootloader v%d.%d, %d commands supported\n",
		version>>4, version&0x0F, len(commands))

	switch args[0] {
	case "get":
		fmt.Printf("version: %d.%d\ncommands: % x\n", version>>4, version&0x0F, commands)
		return nil
	case "get-id":
		id, err := prog.GetID()
		if err != nil {
			return fmt.Errorf("stm32boot: get-id: %w", err)
		}
		fmt.Printf("chip id: 0x%04x\n", id)
		return nil
	case "read":
		return runRead(prog, args[1:])
	case "write":
		return runWrite(prog, args[1:])
	case "erase":
		return runErase(prog, args[1:])
	case "erase-all":
		return wrap("erase-all", prog.MassErase())
	case "go":
		return runGo(prog, args[1:])
	case "write-protect":
		return wrap("write-protect", prog.WriteProtect())
	case "write-unprotect":
		return wrap("write-unprotect", prog.WriteUnprotect())
	case "readout-protect":
		return wrap("readout-protect", prog.ReadoutProtect())
	case "readout-unprotect":
		return wrap("readout-unprotect", prog.ReadoutUnprotect())
	default:
		usage()
		return fmt.Errorf("stm32boot: unknown command %q", args[0])
	}
}

func wrap(name string, err error) error {
	if err != nil {
		return fmt.Errorf("stm32boot: %s: %w", name, err)
	}
	return nil
}

func runRead(prog *stm32boot.Programmer, args []string) error {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	offset := fs.String("offset", "0x08000000", "start address (hex)")
	length := fs.Uint("length", 0, "number of bytes to read")
	file := fs.String("file", "", "output file")
	fs.Parse(args)
	if *file == "" {
		return errors.New("stm32boot: read: -file is required")
	}
	addr, err := parseHex(*offset)
	if err != nil {
		return err
	}
	data := make([]byte, *length)
	if err := prog.ReadMemory(addr, data); err != nil {
		return fmt.Errorf("stm32boot: read: %w", err)
	}
	if err := os.WriteFile(*file, data, 0o644); err != nil {
		return fmt.Errorf("stm32boot: read: %w", err)
	}
	return nil
}

func runWrite(prog *stm32boot.Programmer, args []string) error {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	offset := fs.String("offset", "0x08000000", "start address (hex)")
	file := fs.String("file", "", "input file")
	fs.Parse(args)
	if *file == "" {
		return errors.New("stm32boot: write: -file is required")
	}
	addr, err := parseHex(*offset)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("stm32boot: write: %w", err)
	}
	if err := prog.WriteMemory(addr, data); err != nil {
		return fmt.Errorf("stm32boot: write: %w", err)
	}
	return nil
}

func runErase(prog *stm32boot.Programmer, args []string) error {
	fs := flag.NewFlagSet("erase", flag.ExitOnError)
	offset := fs.Uint("offset", 0, "first page to erase")
	count := fs.Uint("count", 0, "number of pages to erase")
	fs.Parse(args)
	if *count == 0 {
		return errors.New("stm32boot: erase: -count must be > 0")
	}
	if err := prog.ErasePages(uint8(*offset), uint8(*count)); err != nil {
		return fmt.Errorf("stm32boot: erase: %w", err)
	}
	return nil
}

func runGo(prog *stm32boot.Programmer, args []string) error {
	fs := flag.NewFlagSet("go", flag.ExitOnError)
	offset := fs.String("offset", "0x08000000", "address to jump to (hex)")
	fs.Parse(args)
	addr, err := parseHex(*offset)
	if err != nil {
		return err
	}
	if err := prog.Go(addr); err != nil {
		return fmt.Errorf("stm32boot: go: %w", err)
	}
	return nil
}

func parseHex(s string) (uint32, error) {
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("stm32boot: invalid address %q: %w", s, err)
	}
	return uint32(v), nil
}
