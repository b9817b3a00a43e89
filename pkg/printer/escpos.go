package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alignment values for ESC a.
type Align byte

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Character size values for GS !.
const (
	SizeNormal byte = 0x00
	SizeDouble byte = 0x11
	SizeWide   byte = 0x10
	SizeTall   byte = 0x01
)

// CharsForPaper returns the printable characters per line for a paper width in millimetres.
func CharsForPaper(widthMM int) int {
	if widthMM >= 80 {
		return 48
	}
	return 32
}

// Document accumulates an ESC/POS byte stream for one receipt.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document with the given characters per line.
func NewDocument(width int) *Document {
	if width <= 0 {
		width = 32
	}
	d := &Document{width: width}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width returns the characters per line.
func (d *Document) Width() int { return d.width }

func (d *Document) Feed(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) Align(a Align) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(a)})
	return d
}

func (d *Document) Bold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) Size(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Line writes s truncated to the line width.
func (d *Document) Line(s string) *Document {
	d.buf.WriteString(truncate(s, d.width))
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) Linef(format string, args ...any) *Document {
	return d.Line(fmt.Sprintf(format, args...))
}

// Wrap writes s over as many lines as needed.
func (d *Document) Wrap(s string) *Document {
	for _, l := range wrap(s, d.width) {
		d.Line(l)
	}
	return d
}

// Rule writes a full-width separator.
func (d *Document) Rule(ch rune) *Document {
	return d.Line(strings.Repeat(string(ch), d.width))
}

// Columns writes left and right on one line, right-aligned value.
// When they do not fit, left is truncated so the value stays visible.
func (d *Document) Columns(left, right string) *Document {
	rw := utf8.RuneCountInString(right)
	room := d.width - rw - 1
	if room < 1 {
		return d.Line(right)
	}
	left = truncate(left, room)
	pad := d.width - utf8.RuneCountInString(left) - rw
	return d.Line(left + strings.Repeat(" ", pad) + right)
}

// Item writes "qty x name" with the line total on the right; long names wrap onto following lines.
func (d *Document) Item(qty int, name, total string) *Document {
	prefix := fmt.Sprintf("%dx ", qty)
	room := d.width - utf8.RuneCountInString(total) - 1 - len(prefix)
	if room < 4 {
		return d.Line(prefix+name).Columns("", total)
	}
	lines := wrap(name, room)
	d.Columns(prefix+lines[0], total)
	indent := strings.Repeat(" ", len(prefix))
	for _, l := range lines[1:] {
		d.Line(indent + l)
	}
	return d
}

// Cut feeds and performs a partial cut.
func (d *Document) Cut() *Document {
	d.Feed(3)
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func wrap(s string, n int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := ""
	for _, w := range words {
		for utf8.RuneCountInString(w) > n {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			r := []rune(w)
			lines = append(lines, string(r[:n]))
			w = string(r[n:])
		}
		switch {
		case cur == "":
			cur = w
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) <= n:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
