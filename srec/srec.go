// Package srec writes Motorola S-record (S68) files: a header record, a
// sequence of S2 (24-bit address) data records, and an S8 termination
// record carrying the program's entry point. Ported from original_source's
// tools/src/srecords.rs, which frames this as pure I/O formatting with no
// core emulator semantics of its own — it is built anyway because it is a
// natural consumer of mem.PagedMemory's Diffs, exercising that API end to
// end.
package srec

import (
	"fmt"
	"io"
	"sort"

	"m68k/mem"
)

// chunkSize is the maximum number of data bytes per S2 record, matching the
// original writer's line-wrapping width.
const chunkSize = 34

// Segment is one contiguous run of memory to emit as one or more S2
// records, splitting into chunkSize-byte records as needed.
type Segment struct {
	Address uint32
	Data    []byte
}

// checksum accumulates the one's-complement checksum shared by every
// record kind: the byte count and address contribute first, then each data
// byte, and the final value is 0xFF minus the wrapped sum.
type checksum struct {
	sum byte
}

func newChecksum(length byte, address uint32) *checksum {
	c := &checksum{sum: length}
	c.addLong(address)
	return c
}

func (c *checksum) addByte(b byte) {
	c.sum += b
}

func (c *checksum) addLong(v uint32) {
	c.addByte(byte(v))
	c.addByte(byte(v >> 8))
	c.addByte(byte(v >> 16))
	c.addByte(byte(v >> 24))
}

func (c *checksum) value() byte {
	return 0xff - c.sum
}

// WriteS68 writes a complete S-record file: one header, one S2 record per
// chunkSize-byte slice of every segment, and one S8 termination record
// naming entrypoint. Segments are written in the order given; callers that
// built them from SegmentsFromDiffs already have them in ascending address
// order.
func WriteS68(w io.Writer, segments []Segment, entrypoint uint32) error {
	if err := writeHeader(w); err != nil {
		return err
	}
	for _, seg := range segments {
		for i := 0; i < len(seg.Data); i += chunkSize {
			end := i + chunkSize
			if end > len(seg.Data) {
				end = len(seg.Data)
			}
			if err := writeDataRecord(w, seg.Address+uint32(i), seg.Data[i:end]); err != nil {
				return err
			}
		}
	}
	return writeTermination(w, entrypoint)
}

// writeHeader emits the S0 record identifying this as an r68k image, the
// same fixed payload the original tool writes.
func writeHeader(w io.Writer) error {
	const r68k = 0x7236386b // "r68k" in ASCII
	chk := newChecksum(7, r68k)
	_, err := fmt.Fprintf(w, "S0070000%08X%02X\n", r68k, chk.value())
	return err
}

func writeDataRecord(w io.Writer, address uint32, data []byte) error {
	length := byte(4 + len(data))
	chk := newChecksum(length, address)
	if _, err := fmt.Fprintf(w, "S2%02X%06X", length, address); err != nil {
		return err
	}
	for _, b := range data {
		chk.addByte(b)
		if _, err := fmt.Fprintf(w, "%02X", b); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%02X\n", chk.value())
	return err
}

func writeTermination(w io.Writer, entrypoint uint32) error {
	chk := newChecksum(4, entrypoint)
	_, err := fmt.Fprintf(w, "S804%06X%02X\n", entrypoint, chk.value())
	return err
}

// SegmentsFromDiffs collapses a PagedMemory's byte-level Diffs (already in
// ascending address order) into contiguous Segments, so a snapshot with a
// handful of scattered writes produces a handful of records instead of one
// per byte.
func SegmentsFromDiffs(diffs []mem.Diff) []Segment {
	if len(diffs) == 0 {
		return nil
	}
	sorted := make([]mem.Diff, len(diffs))
	copy(sorted, diffs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Address < sorted[j].Address })

	var out []Segment
	cur := Segment{Address: sorted[0].Address, Data: []byte{sorted[0].Value}}
	for _, d := range sorted[1:] {
		if d.Address == cur.Address+uint32(len(cur.Data)) {
			cur.Data = append(cur.Data, d.Value)
			continue
		}
		out = append(out, cur)
		cur = Segment{Address: d.Address, Data: []byte{d.Value}}
	}
	out = append(out, cur)
	return out
}
