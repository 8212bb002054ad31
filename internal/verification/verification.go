// Package verification cross-checks a decoded memory image against an
// independent Intel HEX parser.
package verification

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marcinbor85/gohex"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/retrohex/ihex"
)

// ErrMismatch is returned when the independent parser produced different memory contents.
var ErrMismatch = errors.New("decoded image does not match independent parser")

const maxLoggedMismatches = 10

// VerifyImage parses the lines again using gohex and compares all data bytes
// and the start linear address with the decoded image.
// Inputs that gohex can not represent are skipped with a warning: segment
// address records are ignored by gohex and overlapping data is rejected by it.
func VerifyImage(logger *log.Logger, lines []string, image *ihex.MemoryBlock) error {
	types := recordTypes(lines)
	if types.Contains(ihex.ExtendedSegmentAddress) || types.Contains(ihex.StartSegmentAddress) {
		logger.Warn("Skipping verification, segment address records are not supported by the reference parser")
		return nil
	}

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(strings.NewReader(strings.Join(lines, "\n"))); err != nil {
		logger.Warn("Skipping verification, reference parser rejected the input", log.Err(err))
		return nil
	}

	if err := compareSegments(logger, mem.GetDataSegments(), image); err != nil {
		return err
	}

	if address, ok := mem.GetStartAddress(); ok && address != image.EIP() {
		return fmt.Errorf("%w: start linear address 0x%08X, expected 0x%08X", ErrMismatch, image.EIP(), address)
	}
	return nil
}

func compareSegments(logger *log.Logger, segments []gohex.DataSegment, image *ihex.MemoryBlock) error {
	var diffs, total int
	for _, segment := range segments {
		for i, expected := range segment.Data {
			total++
			address := segment.Address + uint32(i)
			index := int(int64(address) - int64(image.StartAddress()))

			cell, ok := image.Cell(index)
			if ok && cell.Modified && cell.Value == expected {
				continue
			}

			diffs++
			if diffs <= maxLoggedMismatches {
				logger.Error("Address mismatch",
					log.Hex("address", address),
					log.Hex("expected", expected),
					log.Hex("got", cell.Value))
			}
		}
	}

	if diffs > 0 {
		return fmt.Errorf("%w: %d address mismatches", ErrMismatch, diffs)
	}
	if modified := image.ModifiedCount(); modified != total {
		return fmt.Errorf("%w: %d modified cells, expected %d", ErrMismatch, modified, total)
	}
	return nil
}

func recordTypes(lines []string) set.Set[ihex.RecordType] {
	types := set.New[ihex.RecordType]()
	for _, line := range lines {
		rec, err := ihex.ParseLine(line)
		if err != nil {
			continue
		}
		types.Add(rec.Type)
	}
	return types
}
