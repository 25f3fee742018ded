// Command m68kdbg is a small interactive TUI for stepping an M68000
// program one instruction at a time, watching the register file, flags
// and a slice of memory update as it runs. Adapted from
// internal/ref6502's bubbletea debugger, generalized from a 6502's 8-bit
// accumulator machine to the 68000's 16-register file and from its
// Opcodes table to cpu.DispatchTable/disasm.Disassemble.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"m68k/cpu"
	"m68k/disasm"
	"m68k/mem"
)

type model struct {
	cpu     *cpu.CPU
	program []byte
	offset  uint32

	prevPC uint32
	halted bool
}

// Init loads the program into memory at offset and points PC at it. It
// returns no command; this TUI is driven entirely by key presses.
func (m model) Init() tea.Cmd {
	for i, b := range m.program {
		m.cpu.Bus.WriteByte(m.cpu.DataSpace(), m.offset+uint32(i), uint32(b))
	}
	m.cpu.Jump(m.offset)
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			if m.cpu.State == cpu.Halted {
				m.halted = true
				return m, nil
			}
			m.prevPC = m.cpu.PC
			m.cpu.Step()
		}
	}
	return m, nil
}

const bytesPerLine = 16

// renderLine renders one 16-byte line of memory as a hex dump, bracketing
// the byte at PC.
func (m model) renderLine(start uint32) string {
	s := fmt.Sprintf("%06X | ", start)
	for i := uint32(0); i < bytesPerLine; i++ {
		addr := start + i
		v := m.cpu.Bus.ReadByte(m.cpu.DataSpace(), addr)
		if addr == m.cpu.PC {
			s += fmt.Sprintf("[%02X]", v)
		} else {
			s += fmt.Sprintf(" %02X ", v)
		}
	}
	return s
}

func (m model) memoryView() string {
	base := m.cpu.PC &^ (bytesPerLine - 1)
	lines := make([]string, 0, 5)
	for i := -2; i <= 2; i++ {
		addr := uint32(int64(base) + int64(i*bytesPerLine))
		lines = append(lines, m.renderLine(addr))
	}
	return strings.Join(lines, "\n")
}

func (m model) registersView() string {
	c := m.cpu
	var d, a strings.Builder
	for n := uint8(0); n < 8; n++ {
		fmt.Fprintf(&d, "D%d=%08X ", n, c.D(n))
		fmt.Fprintf(&a, "A%d=%08X ", n, c.A(n))
	}
	return fmt.Sprintf("PC: %06X (was %06X)\n%s\n%s\nSR: %s", c.PC, m.prevPC, d.String(), a.String(), c.Flags())
}

func (m model) instructionView() string {
	in := disasm.Disassemble(m.cpu.Bus, m.cpu.PC, m.cpu.SFlag)
	row := cpu.DispatchTable()[m.cpu.Bus.ReadWord(m.cpu.ProgramSpace(), m.cpu.PC)]
	return in.String() + "\n" + spew.Sdump(row)
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m model) View() string {
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.memoryView(),
		"  ",
		m.registersView(),
	)
	footer := m.instructionView()
	if m.halted {
		footer = "HALTED\n" + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", footer, "", "space/j: step, q: quit")
}

func main() {
	path := flag.String("program", "", "raw binary image to load")
	offset := flag.Uint("offset", 0x1000, "address to load the image at and start execution from")
	flag.Parse()

	var program []byte
	if *path != "" {
		data, err := os.ReadFile(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "m68kdbg:", err)
			os.Exit(1)
		}
		program = data
	}

	bus := mem.NewBus(0)
	c := cpu.NewCPU(bus)
	if _, err := tea.NewProgram(model{cpu: c, program: program, offset: uint32(*offset)}).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "m68kdbg:", err)
		os.Exit(1)
	}
}
