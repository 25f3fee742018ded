package srec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"m68k/mem"
)

func TestWriteHeaderChecksum(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, writeHeader(&buf))
	assert.Equal(t, "S00700007236386BAD\n", buf.String())
}

func TestWriteTerminationChecksum(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, writeTermination(&buf, 0x002016))
	assert.Equal(t, "S804002016C5\n", buf.String())
}

func TestWriteDataRecordChecksum(t *testing.T) {
	data := []byte("example data here just as an exa")
	var buf bytes.Buffer
	assert.NoError(t, writeDataRecord(&buf, 0x323240, data))
	assert.Equal(t,
		"S2243232406578616D706C6520646174612068657265206A75737420617320616E20657861A6\n",
		buf.String())
}

func TestWriteS68SplitsLongSegmentsIntoChunks(t *testing.T) {
	data := make([]byte, 0xA0)
	for i := range data {
		data[i] = byte(i)
	}
	var buf bytes.Buffer
	err := WriteS68(&buf, []Segment{{Address: 2000, Data: data}}, 2000)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// header + ceil(160/34) data records + termination
	assert.Equal(t, 1+5+1, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "S0"))
	assert.True(t, strings.HasPrefix(lines[1], "S2"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "S804"))
}

func TestSegmentsFromDiffsCollapsesContiguousRuns(t *testing.T) {
	m := mem.NewPagedMemory(0)
	m.WriteByte(0x1000, 0x11)
	m.WriteByte(0x1001, 0x22)
	m.WriteByte(0x1002, 0x33)
	m.WriteByte(0x2000, 0x44)

	// Writing one byte allocates its whole 16-byte page, so each page shows
	// up as one contiguous 16-byte segment.
	segs := SegmentsFromDiffs(m.Diffs())
	assert.Len(t, segs, 2)
	assert.Equal(t, uint32(0x1000), segs[0].Address)
	assert.Len(t, segs[0].Data, 16)
	assert.Equal(t, []byte{0x11, 0x22, 0x33}, segs[0].Data[:3])
	assert.Equal(t, uint32(0x2000), segs[1].Address)
	assert.Len(t, segs[1].Data, 16)
}

func TestSegmentsFromDiffsEmpty(t *testing.T) {
	assert.Nil(t, SegmentsFromDiffs(nil))
}
