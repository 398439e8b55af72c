// Package hexdump formats byte slices as classic offset/hex/ASCII dumps.
package hexdump

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// HexDumpOptions defines options for customizing the hexdump output
type HexDumpOptions struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// ShowASCII determines whether to show the ASCII representation
	ShowASCII bool

	// ShowOffset determines whether to show the offset/address column
	ShowOffset bool

	// StartOffset is the offset of the first byte, typically the remote
	// address the data was read from
	StartOffset uint64

	// OffsetWidth is the width of the offset column in hex digits
	OffsetWidth int

	// Color enables ANSI coloring of the offset column
	Color bool

	// OffsetColor is the color for the offset/address column
	OffsetColor coloransi.ColorCode
}

// DefaultOptions returns the options used by the package-level Dump helpers.
func DefaultOptions() HexDumpOptions {
	return HexDumpOptions{
		BytesPerLine: 16,
		ShowASCII:    true,
		ShowOffset:   true,
		OffsetWidth:  12,
		OffsetColor:  coloransi.Cyan,
	}
}

// Dump creates a hex dump of the given data with the specified options
func Dump(data []byte, options HexDumpOptions) string {
	var sb strings.Builder
	DumpToWriter(&sb, data, options)
	return sb.String()
}

// DumpToWriter writes the formatted dump of data to writer.
func DumpToWriter(writer io.Writer, data []byte, options HexDumpOptions) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}

	for start := 0; start < len(data); start += options.BytesPerLine {
		end := start + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}
		formatLine(writer, data[start:end], options.StartOffset+uint64(start), options)
	}
}

// DumpWithAddress dumps data using the default options with the given remote
// address as the offset column base.
func DumpWithAddress(data []byte, addr uint64) string {
	options := DefaultOptions()
	options.StartOffset = addr
	return Dump(data, options)
}

func formatLine(writer io.Writer, line []byte, offset uint64, options HexDumpOptions) {
	if options.ShowOffset {
		col := fmt.Sprintf("%0*x", options.OffsetWidth, offset)
		if options.Color {
			col = coloransi.Color(options.OffsetColor, coloransi.Black, col)
		}
		fmt.Fprintf(writer, "%s  ", col)
	}

	for i := 0; i < options.BytesPerLine; i++ {
		if i < len(line) {
			fmt.Fprintf(writer, "%02x ", line[i])
		} else {
			io.WriteString(writer, "   ")
		}
		if i%8 == 7 {
			io.WriteString(writer, " ")
		}
	}

	if options.ShowASCII {
		io.WriteString(writer, "|")
		for _, b := range line {
			r := rune(b)
			if !unicode.IsPrint(r) || r > unicode.MaxASCII {
				r = '.'
			}
			fmt.Fprintf(writer, "%c", r)
		}
		io.WriteString(writer, "|")
	}
	io.WriteString(writer, "\n")
}
