// Package mem implements the M68K's paged memory and its four
// function-code-tagged address spaces.
//
// A Bus has no divisions or mirroring of its own (unlike the NES bus this
// package is descended from): all four AddressSpace tags share exactly one
// PagedMemory. The tag is carried purely for the operation log and for
// callers that want to assert on it.
package mem

import "fmt"

// AddressSpace identifies one of the four M68K function-code-tagged views
// of memory: {User, Supervisor} x {Program, Data}.
type AddressSpace struct {
	supervisor bool
	program    bool
}

var (
	SupervisorProgram = AddressSpace{supervisor: true, program: true}
	SupervisorData    = AddressSpace{supervisor: true, program: false}
	UserProgram       = AddressSpace{supervisor: false, program: true}
	UserData          = AddressSpace{supervisor: false, program: false}
)

// FunctionCode returns the 3-bit function code the bus would emit for this
// address space: 1/2/5/6 for user-data/user-program/supervisor-data/
// supervisor-program.
func (a AddressSpace) FunctionCode() uint8 {
	switch {
	case !a.supervisor && !a.program:
		return 1
	case !a.supervisor && a.program:
		return 2
	case a.supervisor && !a.program:
		return 5
	default:
		return 6
	}
}

// Supervisor reports whether this address space is the supervisor view.
func (a AddressSpace) Supervisor() bool { return a.supervisor }

// Program reports whether this address space is the instruction-fetch view.
func (a AddressSpace) Program() bool { return a.program }

// ProgramSpace returns the Program-tagged address space for the given
// supervisor bit, as used by the prefetcher (spec.md §4.2).
func ProgramSpace(supervisor bool) AddressSpace {
	if supervisor {
		return SupervisorProgram
	}
	return UserProgram
}

// DataSpace returns the Data-tagged address space for the given supervisor
// bit, as used by effective-address operand reads.
func DataSpace(supervisor bool) AddressSpace {
	if supervisor {
		return SupervisorData
	}
	return UserData
}

func (a AddressSpace) String() string {
	mode := "User"
	if a.supervisor {
		mode = "Supervisor"
	}
	seg := "Data"
	if a.program {
		seg = "Program"
	}
	return fmt.Sprintf("%s/%s", mode, seg)
}
