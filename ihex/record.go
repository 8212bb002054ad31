package ihex

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// RecordType defines the kind of an Intel HEX record.
type RecordType uint8

// record types as encoded in the type field of a line.
const (
	Data                   RecordType = 0x00
	EndOfFile              RecordType = 0x01
	ExtendedSegmentAddress RecordType = 0x02
	StartSegmentAddress    RecordType = 0x03
	ExtendedLinearAddress  RecordType = 0x04
	StartLinearAddress     RecordType = 0x05
)

const (
	startCode = ':'

	// byte count, 2 address bytes, type and checksum.
	recordOverhead = 5
	minLineLength  = 1 + 2*recordOverhead
)

var recordTypeNames = map[RecordType]string{
	Data:                   "Data",
	EndOfFile:              "EndOfFile",
	ExtendedSegmentAddress: "ExtendedSegmentAddress",
	StartSegmentAddress:    "StartSegmentAddress",
	ExtendedLinearAddress:  "ExtendedLinearAddress",
	StartLinearAddress:     "StartLinearAddress",
}

// String returns the name of the record type.
func (t RecordType) String() string {
	if name, ok := recordTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("RecordType(0x%02X)", uint8(t))
}

// Valid returns whether the type is one of the six known record kinds.
func (t RecordType) Valid() bool {
	_, ok := recordTypeNames[t]
	return ok
}

// Record is a single decoded line of an Intel HEX file.
type Record struct {
	Type      RecordType
	Address   uint16
	ByteCount uint8
	Bytes     []byte
	Checksum  uint8
}

// ParseLine parses one line of an Intel HEX file into a record.
// Surrounding whitespace is ignored. The line syntax, the declared byte
// count and the checksum are verified; the structural rules of the record
// type are not, see Record.Validate.
func ParseLine(line string) (Record, error) {
	line = strings.TrimSpace(line)
	if len(line) < minLineLength {
		return Record{}, formatError(fmt.Sprintf("line too short (%d characters)", len(line)))
	}
	if line[0] != startCode {
		return Record{}, formatError("missing start code ':'")
	}

	b, err := hex.DecodeString(line[1:])
	if err != nil {
		return Record{}, formatError(fmt.Sprintf("decoding hex digits: %s", err))
	}

	byteCount := b[0]
	if int(byteCount)+recordOverhead != len(b) {
		return Record{}, formatError(fmt.Sprintf("byte count %d does not match %d data bytes",
			byteCount, len(b)-recordOverhead))
	}

	last := len(b) - 1
	if sum := ChecksumOf(b[:last]); sum != b[last] {
		return Record{}, formatError(fmt.Sprintf("incorrect checksum 0x%02X, expected 0x%02X", b[last], sum))
	}

	typ := RecordType(b[3])
	if !typ.Valid() {
		return Record{}, formatError(fmt.Sprintf("unsupported record type 0x%02X", b[3]))
	}

	rec := Record{
		Type:      typ,
		Address:   binary.BigEndian.Uint16(b[1:3]),
		ByteCount: byteCount,
		Bytes:     b[4:last:last],
		Checksum:  b[last],
	}
	return rec, nil
}

// ChecksumOf returns the two's complement of the 8 bit sum of the given
// bytes, the value that makes the sum of a whole line zero.
func ChecksumOf(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return -sum
}

// Validate checks the structural rules that apply to the record type,
// like the expected byte count and a zero address field.
func (r Record) Validate() error {
	switch r.Type {
	case Data:
		return nil
	case EndOfFile:
		return validateEndOfFile(r)
	case ExtendedSegmentAddress, ExtendedLinearAddress:
		return validateExtendedAddress(r)
	case StartSegmentAddress, StartLinearAddress:
		return validateStartAddress(r)
	default:
		return formatError(fmt.Sprintf("unsupported record type %s", r.Type))
	}
}

func validateEndOfFile(r Record) error {
	switch {
	case r.Address != 0:
		return formatError("address should be zero in end of file record")
	case r.ByteCount != 0:
		return formatError("byte count should be zero in end of file record")
	case len(r.Bytes) != 0:
		return formatError("end of file record should not contain data")
	case r.Checksum != 0xFF:
		return formatError("checksum should be 0xFF in end of file record")
	}
	return nil
}

func validateExtendedAddress(r Record) error {
	if r.ByteCount != 2 || len(r.Bytes) != 2 {
		return formatError(fmt.Sprintf("byte count should be 2 in %s record", r.Type))
	}
	return nil
}

func validateStartAddress(r Record) error {
	if r.ByteCount != 4 || len(r.Bytes) != 4 {
		return formatError(fmt.Sprintf("byte count should be 4 in %s record", r.Type))
	}
	if r.Address != 0 {
		return formatError(fmt.Sprintf("address should be zero in %s record", r.Type))
	}
	return nil
}
