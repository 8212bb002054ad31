// Package options contains the program options.
package options

// Output formats.
const (
	FormatBinary     = "bin"
	FormatBinaryTrim = "bin-trim"
	FormatDump       = "dump"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input Intel HEX file"`
	Output string `flag:"o" usage:"output file (default: <input>.bin, stdout for dump)"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.hex)"`
}

// Memory contains the memory layout options as given on the command line.
type Memory struct {
	Size  string `flag:"size" usage:"memory size, decimal, 0x hex or with K/M suffix" default:"64K"`
	Start string `flag:"start" usage:"absolute address of the first memory cell" default:"0"`
	Fill  string `flag:"fill" usage:"value of cells not written by data records" default:"0xFF"`
}

// Flags contains behavior options.
type Flags struct {
	Format        string `flag:"format" usage:"output format: bin, bin-trim, dump" default:"bin"`
	LegacySegment bool   `flag:"legacy-segment" usage:"compose CS/IP registers like legacy loaders"`
	Verify        bool   `flag:"verify" usage:"cross-check the decoded image with an independent parser"`
	Debug         bool   `flag:"debug" usage:"enable debug logging"`
	Quiet         bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the decoder tool.
type Program struct {
	Parameters
	Memory
	Flags
}

// Decoder defines the parsed memory layout used to decode a file.
type Decoder struct {
	MemorySize    int
	StartAddress  uint32
	FillValue     byte
	LegacySegment bool
}
