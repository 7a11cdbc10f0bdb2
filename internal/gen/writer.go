// Package gen renders an ir.Schema into source code. Output is byte
// deterministic: the same schema and options always produce the same file.
package gen

import (
	"bytes"
	"fmt"
	"strings"
)

// indentUnit is four spaces. Emitted files never contain tabs.
const indentUnit = "    "

// writer accumulates indented source lines. It strips trailing whitespace so
// blank lines inside indented blocks stay truly empty.
type writer struct {
	buf    bytes.Buffer
	indent int
}

func (w *writer) in()  { w.indent++ }
func (w *writer) out() { w.indent-- }

// line writes one line at the current indent.
func (w *writer) line(s string) {
	if s == "" {
		w.buf.WriteByte('\n')
		return
	}
	out := strings.Repeat(indentUnit, w.indent) + s
	out = strings.TrimRight(out, " \t")
	w.buf.WriteString(out)
	w.buf.WriteByte('\n')
}

func (w *writer) linef(format string, args ...any) {
	w.line(fmt.Sprintf(format, args...))
}

func (w *writer) blank() { w.buf.WriteByte('\n') }

// block runs body one level deeper, between an opening and a closing line.
func (w *writer) block(open, close string, body func()) {
	w.line(open)
	w.in()
	body()
	w.out()
	w.line(close)
}

func (w *writer) bytes() []byte { return w.buf.Bytes() }
