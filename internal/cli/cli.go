// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrohex/internal/config"
	"github.com/retroenv/retrohex/internal/options"
)

var validFormats = []string{options.FormatBinary, options.FormatBinaryTrim, options.FormatDump}

// ParseFlags parses command line flags and returns program and decoder options
func ParseFlags() (options.Program, options.Decoder, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, options.Decoder{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Decoder{}, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Decoder{}, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	decoderOptions, err := createDecoderOptions(opts)
	if err != nil {
		return opts, options.Decoder{}, err
	}
	return opts, decoderOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrohex [options] <file to decode>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to decode, please pass the file to decode as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Format = strings.ToLower(opts.Format)
	for _, valid := range validFormats {
		if opts.Format == valid {
			return nil
		}
	}

	return fmt.Errorf("unsupported output format: %s. Valid options: %s",
		opts.Format, strings.Join(validFormats, ", "))
}

// createDecoderOptions parses the memory layout options.
func createDecoderOptions(opts options.Program) (options.Decoder, error) {
	size, err := config.ParseSize(opts.Size)
	if err != nil {
		return options.Decoder{}, err
	}
	start, err := config.ParseAddress(opts.Start)
	if err != nil {
		return options.Decoder{}, err
	}
	fill, err := config.ParseByte(opts.Fill)
	if err != nil {
		return options.Decoder{}, err
	}

	return options.Decoder{
		MemorySize:    size,
		StartAddress:  start,
		FillValue:     fill,
		LegacySegment: opts.LegacySegment,
	}, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input Intel HEX file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, <input>.bin if no name given, dump is printed on console")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically output file naming, for example *.hex")
	flags.StringVar(&opts.Size, "size", "64K", "memory size in bytes, decimal, 0x hex or with K/M suffix")
	flags.StringVar(&opts.Start, "start", "0", "absolute address of the first memory cell")
	flags.StringVar(&opts.Fill, "fill", "0xFF", "value of memory cells that are not written by data records")
	flags.StringVar(&opts.Format, "format", options.FormatBinary, "output format (bin/bin-trim/dump)")
	flags.BoolVar(&opts.LegacySegment, "legacy-segment", false, "compose CS/IP of start segment address records like legacy loaders")
	flags.BoolVar(&opts.Verify, "verify", false, "cross-check the decoded image with an independent Intel HEX parser")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
