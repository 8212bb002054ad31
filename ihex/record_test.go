package ihex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Record
	}{
		{
			name: "data record",
			line: ":0300000011223397",
			expected: Record{
				Type:      Data,
				Address:   0x0000,
				ByteCount: 3,
				Bytes:     []byte{0x11, 0x22, 0x33},
				Checksum:  0x97,
			},
		},
		{
			name: "data record with address",
			line: ":02FFF000DEAD84",
			expected: Record{
				Type:      Data,
				Address:   0xFFF0,
				ByteCount: 2,
				Bytes:     []byte{0xDE, 0xAD},
				Checksum:  0x84,
			},
		},
		{
			name: "end of file record",
			line: ":00000001FF",
			expected: Record{
				Type:     EndOfFile,
				Bytes:    []byte{},
				Checksum: 0xFF,
			},
		},
		{
			name: "lower case digits",
			line: ":02000004abcd82",
			expected: Record{
				Type:      ExtendedLinearAddress,
				ByteCount: 2,
				Bytes:     []byte{0xAB, 0xCD},
				Checksum:  0x82,
			},
		},
		{
			name: "trailing carriage return",
			line: ":0400000512345678E3\r",
			expected: Record{
				Type:      StartLinearAddress,
				ByteCount: 4,
				Bytes:     []byte{0x12, 0x34, 0x56, 0x78},
				Checksum:  0xE3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseLine(tt.line)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected.Type, rec.Type)
			assert.Equal(t, tt.expected.Address, rec.Address)
			assert.Equal(t, tt.expected.ByteCount, rec.ByteCount)
			assert.Equal(t, len(tt.expected.Bytes), len(rec.Bytes))
			for i := range tt.expected.Bytes {
				assert.Equal(t, tt.expected.Bytes[i], rec.Bytes[i])
			}
			assert.Equal(t, tt.expected.Checksum, rec.Checksum)
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		errContain string
	}{
		{"empty line", "", "line too short"},
		{"too short", ":000001FF", "line too short"},
		{"missing colon", "00000001FF0", "missing start code"},
		{"no hex digits", ":qw00000001FF", "decoding hex digits"},
		{"odd digit count", ":00000001FFA", "decoding hex digits"},
		{"byte count too large", ":02000000FE", "byte count 2 does not match 0 data bytes"},
		{"byte count too small", ":0100000011223397", "byte count 1 does not match 3 data bytes"},
		{"checksum mismatch", ":0300000011223398", "incorrect checksum 0x98, expected 0x97"},
		{"eof checksum mismatch", ":00000001FE", "incorrect checksum"},
		{"unknown record type", ":00000006FA", "unsupported record type 0x06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat))
			assert.ErrorContains(t, err, tt.errContain)
		})
	}
}

func TestParseLineChecksumCoversEveryByte(t *testing.T) {
	lines := []string{
		":0300000011223397",
		":02000004ABCD82",
		":0400000312345678E5",
		":00000001FF",
	}

	for _, line := range lines {
		_, err := ParseLine(line)
		assert.NoError(t, err)

		digits := line[1:]
		for pos := 0; pos < len(digits); pos += 2 {
			value, err := strconv.ParseUint(digits[pos:pos+2], 16, 8)
			assert.NoError(t, err)

			modified := ":" + digits[:pos] + fmt.Sprintf("%02X", value^0x01) + digits[pos+2:]
			_, err = ParseLine(modified)
			assert.Error(t, err, fmt.Sprintf("changed byte %d of %s not detected", pos/2, line))
			assert.True(t, errors.Is(err, ErrFormat))
		}
	}
}

func TestChecksumOf(t *testing.T) {
	assert.Equal(t, byte(0x97), ChecksumOf([]byte{0x03, 0x00, 0x00, 0x00, 0x11, 0x22, 0x33}))
	assert.Equal(t, byte(0xFF), ChecksumOf([]byte{0x00, 0x00, 0x00, 0x01}))
	assert.Equal(t, byte(0x00), ChecksumOf(nil))
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		errContain string
	}{
		{"valid data", ":0300000011223397", ""},
		{"valid end of file", ":00000001FF", ""},
		{"valid extended segment address", ":020000021000EC", ""},
		{"valid extended linear address", ":02000004ABCD82", ""},
		{"valid start segment address", ":0400000312345678E5", ""},
		{"valid start linear address", ":0400000512345678E3", ""},
		{"end of file with address", ":00000101FE", "address should be zero in end of file record"},
		{"end of file with data", ":0100000100FE", "byte count should be zero in end of file record"},
		{"short extended segment address", ":0100000201FC", "byte count should be 2 in ExtendedSegmentAddress record"},
		{"long extended linear address", ":03000004010203F3", "byte count should be 2 in ExtendedLinearAddress record"},
		{"short start linear address", ":03000005010203F2", "byte count should be 4 in StartLinearAddress record"},
		{"start segment address with address", ":0400010300000000F8", "address should be zero in StartSegmentAddress record"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseLine(tt.line)
			assert.NoError(t, err)

			err = rec.Validate()
			if tt.errContain == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat))
			assert.ErrorContains(t, err, tt.errContain)
		})
	}
}

func TestRecordTypeString(t *testing.T) {
	assert.Equal(t, "Data", Data.String())
	assert.Equal(t, "StartLinearAddress", StartLinearAddress.String())
	assert.True(t, strings.HasPrefix(RecordType(0x42).String(), "RecordType(0x42"))
	assert.False(t, RecordType(0x06).Valid())
}
