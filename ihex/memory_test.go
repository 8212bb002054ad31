package ihex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestNewMemoryBlock(t *testing.T) {
	m := NewMemoryBlock(4, 0xAA, 0x8000)
	assert.Equal(t, 4, m.Size())
	assert.Equal(t, uint32(0x8000), m.StartAddress())
	assert.Equal(t, -1, m.HighestModifiedOffset())
	assert.Equal(t, 0, m.ModifiedCount())
	assert.Equal(t, "", cmp.Diff([]byte{0xAA, 0xAA, 0xAA, 0xAA}, m.Bytes()))
	assert.Empty(t, m.Segments())

	_, ok := m.Cell(4)
	assert.False(t, ok)
	_, ok = m.Cell(-1)
	assert.False(t, ok)
}

func TestMemoryBlockCellsIsCopy(t *testing.T) {
	m := NewMemoryBlock(2, 0x00, 0)
	cells := m.Cells()
	cells[0].Value = 0x42
	cells[0].Modified = true

	cell, _ := m.Cell(0)
	assert.Equal(t, byte(0x00), cell.Value)
	assert.False(t, cell.Modified)
}

func TestMemoryBlockSegments(t *testing.T) {
	m := NewMemoryBlock(16, 0xFF, 0x100)
	m.write(0, 0x01)
	m.write(1, 0x02)
	m.write(5, 0x03)
	m.write(14, 0x04)
	m.write(15, 0x05)

	expected := []Segment{
		{Address: 0x100, Data: []byte{0x01, 0x02}},
		{Address: 0x105, Data: []byte{0x03}},
		{Address: 0x10E, Data: []byte{0x04, 0x05}},
	}
	assert.Equal(t, "", cmp.Diff(expected, m.Segments()))
	assert.Equal(t, 15, m.HighestModifiedOffset())
	assert.Equal(t, 5, m.ModifiedCount())
}
