// Package debug renders indented plain text dumps used in diagnostics and
// debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indent = "  "

// TreeWriter accumulates indented lines.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) start(depth int) {
	tw.w.WriteString(strings.Repeat(indent, max(depth, 0)))
}

func (tw *TreeWriter) end() {
	tw.w.WriteByte('\n')
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.start(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.end()
}

// KeyValue writes "key<sep>value". Values which would break line structure
// are quoted.
func (tw *TreeWriter) KeyValue(depth int, key, sep string, value any) {
	tw.start(depth)
	tw.w.WriteString(key)
	tw.w.WriteString(sep)
	s := fmt.Sprint(value)
	if strings.ContainsAny(s, "\r\n\t") {
		s = strconv.Quote(s)
	}
	tw.w.WriteString(s)
	tw.end()
}

// TextBlock writes label with always quoted value, empty value is left empty.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.start(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.end()
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
