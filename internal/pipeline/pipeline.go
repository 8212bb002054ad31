// Package pipeline orchestrates the decoding workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrohex/ihex"
	"github.com/retroenv/retrohex/internal/loader"
	"github.com/retroenv/retrohex/internal/options"
	"github.com/retroenv/retrohex/internal/verification"
	"github.com/retroenv/retrohex/internal/writer"
)

// Pipeline orchestrates the complete decoding workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
}

// New creates a new decoding pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
	}
}

// Execute runs the complete decoding pipeline for the input file of the options.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, decoderOpts options.Decoder,
	output io.Writer) (*ihex.MemoryBlock, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := p.loader.LoadFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading file: %w", err)
	}

	return p.ExecuteWithLines(ctx, lines, opts, decoderOpts, output)
}

// ExecuteWithLines runs the decoding pipeline with already loaded lines.
// This is useful for testing and programmatic usage where the lines are already in memory.
func (p *Pipeline) ExecuteWithLines(ctx context.Context, lines []string, opts options.Program,
	decoderOpts options.Decoder, output io.Writer) (*ihex.MemoryBlock, error) {

	p.printInfo(opts, decoderOpts, len(lines))

	image, err := p.decode(lines, decoderOpts)
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Verify {
		if err := verification.VerifyImage(p.logger, lines, image); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	if err := p.write(image, opts, output); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	p.printResult(opts, image)
	return image, nil
}

// decode creates a decoder for the memory layout and decodes the lines.
func (p *Pipeline) decode(lines []string, decoderOpts options.Decoder) (*ihex.MemoryBlock, error) {
	opts := []ihex.Option{
		ihex.WithStartAddress(decoderOpts.StartAddress),
		ihex.WithFillValue(decoderOpts.FillValue),
		ihex.WithLogger(p.logger),
	}
	if decoderOpts.LegacySegment {
		opts = append(opts, ihex.WithLegacySegmentRegisters())
	}

	decoder := ihex.NewDecoder(opts...)
	return decoder.Decode(lines, decoderOpts.MemorySize)
}

// write outputs the image in the requested format, styling dumps for terminals.
func (p *Pipeline) write(image *ihex.MemoryBlock, opts options.Program, output io.Writer) error {
	writerOpts := writer.Options{}
	if file, ok := output.(*os.File); ok && opts.Format == options.FormatDump {
		writerOpts = writer.TerminalOptions(file)
	}
	writerOpts.Format = opts.Format

	return writer.New(image, output, writerOpts).Write()
}

// printInfo prints information about the file being processed.
func (p *Pipeline) printInfo(opts options.Program, decoderOpts options.Decoder, lineCount int) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing Intel HEX file",
		log.String("file", opts.Input),
		log.Int("lines", lineCount),
		log.Int("memory_size", decoderOpts.MemorySize),
		log.Hex("start_address", decoderOpts.StartAddress),
	)
	if decoderOpts.LegacySegment {
		p.logger.Warn("Using legacy start segment register composition, CS and IP may not match the file contents")
	}
}

// printResult prints a summary of the decoded image.
func (p *Pipeline) printResult(opts options.Program, image *ihex.MemoryBlock) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Decoded memory image",
		log.Int("modified_bytes", image.ModifiedCount()),
		log.Int("highest_modified_offset", image.HighestModifiedOffset()),
		log.Hex("eip", image.EIP()),
	)
}
