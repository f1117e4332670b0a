// Package hexdump prints byte slices as hexadecimal lines of 8 bytes.
// Consecutive identical lines are collapsed.
package hexdump

import (
	"fmt"
	"io"
	"strings"
)

// Columns is the number of bytes per line.
const Columns = 8

// Dump writes the data to w. Every line starts with the address of its first
// byte. A run of identical lines is printed as its first line, a "..." line
// if the run is longer than two lines, and its last line.
func Dump(w io.Writer, data []byte) error {
	lines := formatLines(data)

	var sb strings.Builder
	for i := 0; i < len(lines); {
		run := 1
		for i+run < len(lines) && lines[i+run] == lines[i] {
			run++
		}

		if run > 1 {
			writeLine(&sb, i, lines[i])
			if run > 2 {
				sb.WriteString("...\n")
			}
		}
		last := i + run - 1
		writeLine(&sb, last, lines[last])
		i += run
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing hex dump: %w", err)
	}
	return nil
}

// String returns the dump of the data as string.
func String(data []byte) string {
	var sb strings.Builder
	_ = Dump(&sb, data)
	return sb.String()
}

func writeLine(sb *strings.Builder, line int, text string) {
	fmt.Fprintf(sb, "%04x: %s\n", line*Columns, text)
}

// formatLines returns the hex text of every chunk of Columns bytes, the last
// chunk can be shorter.
func formatLines(data []byte) []string {
	lines := make([]string, 0, (len(data)+Columns-1)/Columns)
	for start := 0; start < len(data); start += Columns {
		end := min(start+Columns, len(data))

		var sb strings.Builder
		for i, b := range data[start:end] {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%02x", b)
		}
		lines = append(lines, sb.String())
	}
	return lines
}
