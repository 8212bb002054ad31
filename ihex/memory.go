package ihex

// DefaultFillValue is the value of all cells that are not written by a data record.
const DefaultFillValue byte = 0xFF

// Cell is a single byte of a memory block.
type Cell struct {
	Offset   int  // index of the cell inside the block
	Value    byte // current value
	Modified bool // set when written by a data record
}

// Segment is a contiguous run of modified cells.
type Segment struct {
	Address uint32 // absolute address of the first byte
	Data    []byte
}

// MemoryBlock is the decoded memory image, an ordered collection of memory
// cells and the entry point registers.
type MemoryBlock struct {
	startAddress uint32
	cells        []Cell

	cs  uint16 // code segment register
	ip  uint16 // instruction pointer register
	eip uint32 // extended instruction pointer register
}

// NewMemoryBlock returns a memory block of the given size with all cells set
// to the fill value. The start address is the absolute address of cell 0,
// for systems with memory that does not start at address 0.
func NewMemoryBlock(size int, fill byte, startAddress uint32) *MemoryBlock {
	if size < 0 {
		size = 0
	}
	m := &MemoryBlock{
		startAddress: startAddress,
		cells:        make([]Cell, size),
	}
	for i := range m.cells {
		m.cells[i] = Cell{Offset: i, Value: fill}
	}
	return m
}

// StartAddress returns the absolute address of the first cell.
func (m *MemoryBlock) StartAddress() uint32 {
	return m.startAddress
}

// Size returns the size of the memory block in bytes.
func (m *MemoryBlock) Size() int {
	return len(m.cells)
}

// CS returns the code segment register set by a start segment address record.
func (m *MemoryBlock) CS() uint16 {
	return m.cs
}

// IP returns the instruction pointer register set by a start segment address record.
func (m *MemoryBlock) IP() uint16 {
	return m.ip
}

// EIP returns the extended instruction pointer set by a start linear address record.
func (m *MemoryBlock) EIP() uint32 {
	return m.eip
}

// Cell returns the cell at the given index.
func (m *MemoryBlock) Cell(index int) (Cell, bool) {
	if index < 0 || index >= len(m.cells) {
		return Cell{}, false
	}
	return m.cells[index], true
}

// Cells returns a copy of all cells.
func (m *MemoryBlock) Cells() []Cell {
	cells := make([]Cell, len(m.cells))
	copy(cells, m.cells)
	return cells
}

// Bytes returns the values of all cells.
func (m *MemoryBlock) Bytes() []byte {
	b := make([]byte, len(m.cells))
	for i, cell := range m.cells {
		b[i] = cell.Value
	}
	return b
}

// HighestModifiedOffset returns the index of the highest modified cell,
// or -1 if no cell has been modified.
func (m *MemoryBlock) HighestModifiedOffset() int {
	for i := len(m.cells) - 1; i >= 0; i-- {
		if m.cells[i].Modified {
			return i
		}
	}
	return -1
}

// ModifiedCount returns the number of modified cells.
func (m *MemoryBlock) ModifiedCount() int {
	var count int
	for _, cell := range m.cells {
		if cell.Modified {
			count++
		}
	}
	return count
}

// Segments returns all contiguous runs of modified cells in ascending
// address order.
func (m *MemoryBlock) Segments() []Segment {
	var segments []Segment
	var current *Segment

	for i, cell := range m.cells {
		if !cell.Modified {
			current = nil
			continue
		}
		if current == nil {
			segments = append(segments, Segment{Address: m.startAddress + uint32(i)})
			current = &segments[len(segments)-1]
		}
		current.Data = append(current.Data, cell.Value)
	}
	return segments
}

func (m *MemoryBlock) write(index int, value byte) {
	cell := &m.cells[index]
	cell.Value = value
	cell.Modified = true
}
