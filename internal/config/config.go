// Package config handles application configuration and setup
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// ParseSize parses a memory size. Decimal and 0x prefixed hex values are
// supported, a K or M suffix multiplies by 1024 or 1024*1024.
func ParseSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	multiplier := uint64(1)
	switch {
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		multiplier = 1024
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"):
		multiplier = 1024 * 1024
		s = s[:len(s)-1]
	}

	value, err := parseUint(s, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing memory size '%s': %w", s, err)
	}
	size := value * multiplier
	if size == 0 || size > 1<<32 {
		return 0, fmt.Errorf("memory size %d out of range", size)
	}
	return int(size), nil
}

// ParseAddress parses a 32 bit address given as decimal or 0x prefixed hex value.
func ParseAddress(s string) (uint32, error) {
	value, err := parseUint(s, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing address '%s': %w", s, err)
	}
	return uint32(value), nil
}

// ParseByte parses a byte given as decimal or 0x prefixed hex value.
func ParseByte(s string) (byte, error) {
	value, err := parseUint(s, 8)
	if err != nil {
		return 0, fmt.Errorf("parsing byte value '%s': %w", s, err)
	}
	return byte(value), nil
}

func parseUint(s string, bitSize int) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") {
		return strconv.ParseUint(s[1:], 16, bitSize)
	}
	return strconv.ParseUint(s, 0, bitSize)
}
