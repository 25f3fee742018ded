package cpu

import "sync"

// The fetch-decode-dispatch loop. Table construction is deferred to first
// use (not package init) because the declarative rows are appended by each
// handlers_*.go file's own init(), and Go doesn't guarantee init() order
// across files beyond lexical file name — building eagerly from inside an
// init() would race against rows still being appended by a later file.

var (
	tableOnce sync.Once
	table     *[65536]*Row
)

func dispatchTable() *[65536]*Row {
	tableOnce.Do(func() { table = BuildTable() })
	return table
}

// DispatchTable exposes the same cached table Step dispatches through, so
// the disassembler/assembler can walk it without paying BuildTable's
// 65,536-entry construction cost on every call.
func DispatchTable() *[65536]*Row { return dispatchTable() }

// Step fetches, decodes and executes exactly one instruction, servicing
// any pending interrupt first. Returns the Row dispatched (illegalRow for
// an unclaimed opcode; a Privileged row that trapped instead of running is
// still returned), or nil if the CPU is halted/stopped or faulted before
// dispatch.
//
// An odd PC at the fetch boundary (checked inside ReadImmWord) or an odd
// word/long data access deep inside the row's Exec both raise Address
// Error (spec.md §4.2, §4.4) by panicking with addressFault once the
// exception frame is built and PC redirected to the vector. Recovering
// here, around the whole fetch-dispatch-execute sequence, is what stops
// the rest of that instruction from running against the post-fault state
// regardless of how deep the fault surfaced.
func (c *CPU) Step() *Row {
	if c.State == Halted {
		return nil
	}
	c.CheckInterrupts()
	if c.State == Stopped {
		return nil
	}

	var row *Row
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(addressFault); ok {
					return
				}
				panic(r)
			}
		}()

		ir := c.ReadImmWord()
		c.IR = ir
		row = dispatchTable()[ir]
		if row == nil {
			row = &illegalRow
			c.raiseException(4)
			return
		}
		if row.Privileged && !c.SFlag {
			c.raiseException(8)
			return
		}
		row.Exec(c, ir)
	}()
	return row
}

// Run steps the CPU until it halts or stops or n instructions have
// executed, whichever comes first; n <= 0 means run until halted or stopped.
func (c *CPU) Run(n int) int {
	count := 0
	for c.State == Running && (n <= 0 || count < n) {
		c.Step()
		count++
	}
	return count
}
