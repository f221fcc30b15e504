package stm32boot

// command is the one-byte AN3155 opcode sent as the first half of
// every request preamble.
type command byte

const (
	cmdGet                  command = 0x00
	cmdGetVersionReadStatus command = 0x01
	cmdGetID                command = 0x02
	cmdReadMemory           command = 0x11
	cmdGo                   command = 0x21
	cmdWriteMemory          command = 0x31
	cmdErase                command = 0x43
	cmdExtendedErase        command = 0x44
	cmdWriteProtect         command = 0x63
	cmdWriteUnprotect       command = 0x73
	cmdReadoutProtect       command = 0x82
	cmdReadoutUnprotect     command = 0x92
)

const (
	ack      byte = 0x79
	nack     byte = 0x1F
	syncByte byte = 0x7F
)
