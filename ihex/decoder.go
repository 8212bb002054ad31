package ihex

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// Option configures a Decoder.
type Option func(*Decoder)

// WithStartAddress sets the absolute address of the first memory cell.
func WithStartAddress(address uint32) Option {
	return func(d *Decoder) {
		d.startAddress = address
	}
}

// WithFillValue sets the value of all cells that are not written by data records.
func WithFillValue(value byte) Option {
	return func(d *Decoder) {
		d.fillValue = value
	}
}

// WithLegacySegmentRegisters composes the CS and IP registers of start segment
// address records the way older loaders did: the high byte is shifted left by
// 8 plus the low byte instead of being combined with it. Only useful to
// reproduce images produced by such loaders bit for bit.
func WithLegacySegmentRegisters() Option {
	return func(d *Decoder) {
		d.legacySegmentRegisters = true
	}
}

// WithLogger enables debug logging of address and register changes.
func WithLogger(logger *log.Logger) Option {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// Decoder folds a sequence of Intel HEX lines into a memory block.
type Decoder struct {
	logger *log.Logger

	startAddress           uint32
	fillValue              byte
	legacySegmentRegisters bool
}

// decodeState is the accumulator threaded through the record sequence.
type decodeState struct {
	line         int
	baseAddress  uint32
	sawEndOfFile bool
}

// NewDecoder returns a new decoder with the given options applied.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		fillValue: DefaultFillValue,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode decodes the lines into a memory block of memorySize bytes.
// It is a shortcut for NewDecoder(opts...).Decode(lines, memorySize).
func Decode(lines []string, memorySize int, opts ...Option) (*MemoryBlock, error) {
	return NewDecoder(opts...).Decode(lines, memorySize)
}

// Decode parses all lines in order and applies the records to a new memory
// block. The first invalid line or record aborts the decoding, no partial
// memory block is returned. At least one end of file record has to be part
// of the input, lines following it are processed as well.
func (d *Decoder) Decode(lines []string, memorySize int) (*MemoryBlock, error) {
	if memorySize <= 0 {
		return nil, fmt.Errorf("%w: memory size must be greater than zero, got %d", ErrConfiguration, memorySize)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: hex file contents can not be empty", ErrConfiguration)
	}

	image := NewMemoryBlock(memorySize, d.fillValue, d.startAddress)
	var state decodeState

	for i, line := range lines {
		state.line = i + 1

		rec, err := ParseLine(line)
		if err == nil {
			state, err = d.apply(state, rec, image)
		}
		if err != nil {
			return nil, annotateLine(err, state.line, line)
		}
	}

	if !state.sawEndOfFile {
		return nil, fmt.Errorf("%w after %d lines", ErrMissingTerminator, len(lines))
	}
	return image, nil
}

// apply processes a single record and returns the updated state.
func (d *Decoder) apply(state decodeState, rec Record, image *MemoryBlock) (decodeState, error) {
	if err := rec.Validate(); err != nil {
		return state, err
	}

	switch rec.Type {
	case Data:
		return state, d.writeData(state, rec, image)

	case EndOfFile:
		if !state.sawEndOfFile && d.logger != nil {
			d.logger.Debug("End of file record found", log.Int("line", state.line))
		}
		state.sawEndOfFile = true

	case ExtendedSegmentAddress:
		state.baseAddress = uint32(word(rec.Bytes[0], rec.Bytes[1])) << 4
		if d.logger != nil {
			d.logger.Debug("Extended segment address", log.Hex("base_address", state.baseAddress), log.Int("line", state.line))
		}

	case ExtendedLinearAddress:
		state.baseAddress = uint32(word(rec.Bytes[0], rec.Bytes[1])) << 16
		if d.logger != nil {
			d.logger.Debug("Extended linear address", log.Hex("base_address", state.baseAddress), log.Int("line", state.line))
		}

	case StartSegmentAddress:
		if d.legacySegmentRegisters {
			image.cs = legacyWord(rec.Bytes[0], rec.Bytes[1])
			image.ip = legacyWord(rec.Bytes[2], rec.Bytes[3])
		} else {
			image.cs = word(rec.Bytes[0], rec.Bytes[1])
			image.ip = word(rec.Bytes[2], rec.Bytes[3])
		}
		if d.logger != nil {
			d.logger.Debug("Start segment address", log.Hex("cs", image.cs), log.Hex("ip", image.ip))
		}

	case StartLinearAddress:
		image.eip = uint32(rec.Bytes[0])<<24 | uint32(rec.Bytes[1])<<16 | uint32(rec.Bytes[2])<<8 | uint32(rec.Bytes[3])
		if d.logger != nil {
			d.logger.Debug("Start linear address", log.Hex("eip", image.eip))
		}

	default:
		return state, formatError(fmt.Sprintf("unsupported record type %s", rec.Type))
	}

	return state, nil
}

// writeData writes the bytes of a data record relative to the current base address.
func (d *Decoder) writeData(state decodeState, rec Record, image *MemoryBlock) error {
	address := uint64(state.baseAddress) + uint64(rec.Address)
	size := int64(image.Size())

	for i, value := range rec.Bytes {
		absolute := address + uint64(i)
		index := int64(absolute) - int64(d.startAddress)
		if index < 0 || index >= size {
			return &BoundsError{
				Line:    state.line,
				Address: absolute,
				Index:   index,
				Size:    image.Size(),
			}
		}
		image.write(int(index), value)
	}
	return nil
}

// annotateLine adds the line number and text to format errors.
func annotateLine(err error, line int, text string) error {
	var formatErr *FormatError
	if errors.As(err, &formatErr) {
		formatErr.Line = line
		formatErr.Text = text
	}
	return err
}

func word(high, low byte) uint16 {
	return uint16(high)<<8 | uint16(low)
}

// legacyWord reproduces the operator precedence of high << 8 + low, which
// shifts by 8+low bits. The shift count is masked to 5 bits like a 32 bit
// integer shift on x86.
func legacyWord(high, low byte) uint16 {
	shift := (8 + uint32(low)) & 31
	return uint16(uint32(high) << shift)
}
