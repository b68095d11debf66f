package masking

import (
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended to text cut at the length limit.
const TruncationMarker = "…(truncated)"

// Print renders n as indented JSON. Objects and arrays open a new line per
// element, indented by indent spaces per level; empty containers print as {} and [].
func Print(n *Node, indent int) string {
	if indent < 0 {
		indent = 0
	}
	var sb strings.Builder
	p := printer{sb: &sb, unit: strings.Repeat(" ", indent)}
	p.write(n, 0)
	return sb.String()
}

// Compact renders n as single-line JSON.
func Compact(n *Node) string {
	var sb strings.Builder
	p := printer{sb: &sb, compact: true}
	p.write(n, 0)
	return sb.String()
}

type printer struct {
	sb      *strings.Builder
	unit    string
	compact bool
}

func (p *printer) newline(level int) {
	if p.compact {
		return
	}
	p.sb.WriteByte('\n')
	for i := 0; i < level; i++ {
		p.sb.WriteString(p.unit)
	}
}

func (p *printer) write(n *Node, level int) {
	if n == nil {
		p.sb.WriteString("null")
		return
	}
	switch n.Kind {
	case KindNull:
		p.sb.WriteString("null")
	case KindBool, KindNumber:
		p.sb.WriteString(n.Text)
	case KindString:
		writeQuoted(p.sb, n.Text)
	case KindArray:
		if len(n.Items) == 0 {
			p.sb.WriteString("[]")
			return
		}
		p.sb.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				p.sb.WriteByte(',')
			}
			p.newline(level + 1)
			p.write(item, level+1)
		}
		p.newline(level)
		p.sb.WriteByte(']')
	case KindObject:
		if len(n.Fields) == 0 {
			p.sb.WriteString("{}")
			return
		}
		p.sb.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				p.sb.WriteByte(',')
			}
			p.newline(level + 1)
			writeQuoted(p.sb, f.Key)
			if p.compact {
				p.sb.WriteByte(':')
			} else {
				p.sb.WriteString(": ")
			}
			p.write(f.Value, level+1)
		}
		p.newline(level)
		p.sb.WriteByte('}')
	}
}

const hexDigits = "0123456789abcdef"

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				sb.WriteString(`\"`)
			case '\\':
				sb.WriteString(`\\`)
			case '\n':
				sb.WriteString(`\n`)
			case '\r':
				sb.WriteString(`\r`)
			case '\t':
				sb.WriteString(`\t`)
			case '\b':
				sb.WriteString(`\b`)
			case '\f':
				sb.WriteString(`\f`)
			default:
				if c < 0x20 || c == 0x7f {
					sb.WriteString(`\u00`)
					sb.WriteByte(hexDigits[c>>4])
					sb.WriteByte(hexDigits[c&0xf])
				} else {
					sb.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			sb.WriteString(`�`)
		} else {
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	sb.WriteByte('"')
}

// Truncate cuts s to max runes and appends TruncationMarker. Text of at most
// max runes, or any text when max <= 0, is returned unchanged.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	count := 0
	for idx := range s {
		if count == max {
			return s[:idx] + TruncationMarker
		}
		count++
	}
	return s
}
