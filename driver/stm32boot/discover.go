package stm32boot

import "log"

// discover sends the synchronisation byte and waits for the
// bootloader's ACK. Its outcome is logged but never returned: the
// following Get call is the real liveness probe, since some
// bootloaders have already autobauded from a previous attempt and
// won't ack a second sync byte.
func (p *Programmer) discover() {
	if err := p.writeByte(syncByte); err != nil {
		log.Printf("stm32boot: discovery: write failed: %v", err)
	} else if err := p.flush(); err != nil {
		log.Printf("stm32boot: discovery: flush failed: %v", err)
	} else if err := p.awaitAck(); err != nil {
		log.Printf("stm32boot: discovery: no ack observed: %v", err)
	} else {
		log.Printf("stm32boot: discovery: ack observed")
	}
	p.delay.Sleep(100)
}
