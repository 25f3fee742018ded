package cpu

import "math/bits"

// SpuriousInterrupt is the vector used when an interrupt is acknowledged
// but no device responds.
const SpuriousInterrupt uint8 = 0x18

// AutovectorBase is the vector number added to the IPL to form the
// vector for a processor-acknowledged (autovectored) interrupt.
const AutovectorBase uint8 = 0x18

// AutoVectorController tracks pending interrupt-priority-level requests
// (1-7) and hands back the 68000's autovector number on acknowledgement.
// Ported from original_source's emu/src/interrupts.rs AutoInterruptController.
type AutoVectorController struct {
	level uint8
}

// NewAutoVectorController returns a controller with no pending requests.
func NewAutoVectorController() *AutoVectorController {
	return &AutoVectorController{}
}

// RequestInterrupt raises irq (1-7) and returns the resulting pending-level
// bitmap.
func (a *AutoVectorController) RequestInterrupt(irq uint8) uint8 {
	if irq < 1 || irq > 7 {
		panic("interrupt level out of range 1-7")
	}
	a.level |= 1 << (irq - 1)
	return a.level
}

// HighestPriority returns the highest pending interrupt level, or 0 if
// none are pending.
func (a *AutoVectorController) HighestPriority() uint8 {
	if a.level == 0 {
		return 0
	}
	return 8 - uint8(bits.LeadingZeros8(a.level))
}

// AcknowledgeInterrupt clears priority from the pending bitmap and returns
// the autovector number the CPU should fetch its handler address from.
func (a *AutoVectorController) AcknowledgeInterrupt(priority uint8) uint8 {
	a.level &^= 1 << (priority - 1)
	return AutovectorBase + priority
}

// ResetExternalDevices clears all pending interrupt requests, the
// RESET instruction's side effect on attached peripherals.
func (a *AutoVectorController) ResetExternalDevices() {
	a.level = 0
}
