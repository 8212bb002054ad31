// Package writer implements the output of decoded memory images.
package writer

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/retroenv/retrohex/ihex"
	"github.com/retroenv/retrohex/internal/options"
	"golang.org/x/term"
)

const (
	dataBytesPerLine = 16
	wideBytesPerLine = 32

	// terminal columns needed to print wide dump lines.
	wideTerminalWidth = 10 + 3*wideBytesPerLine + wideBytesPerLine + 4
)

var (
	modifiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	fillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

// Options of the writer.
type Options struct {
	Format       string // one of the options.Format constants
	Color        bool   // style the dump output
	BytesPerLine int    // bytes per dump line, defaults to 16
}

// Writer writes a memory image in one of the output formats.
type Writer struct {
	image   *ihex.MemoryBlock
	options Options
	writer  io.Writer
}

// New creates a new writer.
func New(image *ihex.MemoryBlock, writer io.Writer, options Options) *Writer {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = dataBytesPerLine
	}
	return &Writer{
		image:   image,
		options: options,
		writer:  writer,
	}
}

// TerminalOptions returns dump options fitting the terminal the file refers to.
// Files that are not a terminal get plain output.
func TerminalOptions(file *os.File) Options {
	fd := int(file.Fd())
	if !term.IsTerminal(fd) {
		return Options{}
	}

	opts := Options{
		Color:        true,
		BytesPerLine: dataBytesPerLine,
	}
	if width, _, err := term.GetSize(fd); err == nil && width >= wideTerminalWidth {
		opts.BytesPerLine = wideBytesPerLine
	}
	return opts
}

// Write writes the image in the configured format.
func (w Writer) Write() error {
	switch w.options.Format {
	case options.FormatBinary, "":
		return w.WriteBinary(false)
	case options.FormatBinaryTrim:
		return w.WriteBinary(true)
	case options.FormatDump:
		return w.WriteDump()
	default:
		return fmt.Errorf("unsupported output format '%s'", w.options.Format)
	}
}

// WriteBinary writes the values of all cells. If trim is set, the output
// ends with the highest modified cell.
func (w Writer) WriteBinary(trim bool) error {
	data := w.image.Bytes()
	if trim {
		data = data[:w.image.HighestModifiedOffset()+1]
	}
	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("writing binary data: %w", err)
	}
	return nil
}

// WriteDump writes a comment header and a hex dump of all lines that contain
// modified cells. Runs of untouched lines are collapsed into a single '*'.
func (w Writer) WriteDump() error {
	if err := w.WriteCommentHeader(); err != nil {
		return err
	}

	cells := w.image.Cells()
	skipped := false
	for start := 0; start < len(cells); start += w.options.BytesPerLine {
		end := min(start+w.options.BytesPerLine, len(cells))
		line := cells[start:end]

		if !anyModified(line) {
			if !skipped {
				if _, err := fmt.Fprintln(w.writer, "*"); err != nil {
					return fmt.Errorf("writing line: %w", err)
				}
				skipped = true
			}
			continue
		}
		skipped = false

		if err := w.writeDumpLine(start, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteCommentHeader writes the image layout, registers and CRC32 checksum as comments.
func (w Writer) WriteCommentHeader() error {
	header := []string{
		fmt.Sprintf("; Start address: $%08X", w.image.StartAddress()),
		fmt.Sprintf("; Memory size: %d bytes", w.image.Size()),
		fmt.Sprintf("; Modified bytes: %d, highest modified offset: %d", w.image.ModifiedCount(), w.image.HighestModifiedOffset()),
		fmt.Sprintf("; CS: $%04X IP: $%04X EIP: $%08X", w.image.CS(), w.image.IP(), w.image.EIP()),
		fmt.Sprintf("; Image CRC32 checksum: %08x", crc32.ChecksumIEEE(w.image.Bytes())),
	}

	for _, line := range header {
		if _, err := fmt.Fprintln(w.writer, w.style(headerStyle, line)); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func (w Writer) writeDumpLine(offset int, cells []ihex.Cell) error {
	buf := &strings.Builder{}
	address := uint64(w.image.StartAddress()) + uint64(offset)
	fmt.Fprintf(buf, "%08X ", address)

	ascii := &strings.Builder{}
	for i := range w.options.BytesPerLine {
		if i >= len(cells) {
			buf.WriteString("   ")
			continue
		}

		cell := cells[i]
		style := fillStyle
		if cell.Modified {
			style = modifiedStyle
		}
		buf.WriteString(" " + w.style(style, fmt.Sprintf("%02X", cell.Value)))
		ascii.WriteByte(printable(cell.Value))
	}

	if _, err := fmt.Fprintf(w.writer, "%s  |%s|\n", buf.String(), ascii.String()); err != nil {
		return fmt.Errorf("writing dump line: %w", err)
	}
	return nil
}

func (w Writer) style(style lipgloss.Style, s string) string {
	if !w.options.Color {
		return s
	}
	return style.Render(s)
}

func anyModified(cells []ihex.Cell) bool {
	for _, cell := range cells {
		if cell.Modified {
			return true
		}
	}
	return false
}

func printable(b byte) byte {
	if b < 0x20 || b > 0x7E {
		return '.'
	}
	return b
}
