// Package debug has helpers producing human readable dumps of decoded
// resources.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// maxHexBytes limits raw data shown by Hex.
const maxHexBytes = 32

// TreeWriter accumulates indented text, one node per line.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes labeled text, quoted so control characters are visible.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Hex writes labeled raw bytes, long data is cut.
func (tw TreeWriter) Hex(depth int, label string, data []byte) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, "%s: [%d]", label, len(data))
	for i, b := range data {
		if i == maxHexBytes {
			tw.w.WriteString(" ...")
			break
		}
		fmt.Fprintf(tw.w, " %02X", b)
	}
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
