package morkdb

import "strings"

// Unescape decodes Mork value escaping: `$HH` becomes the byte with that
// hex value, a backslash before CRLF or LF is a line continuation and
// decodes to nothing, and a backslash before any other single character
// decodes to that character (covering `\)`, `\\`, and `\$`). The scan is
// strictly left-to-right with no backtracking, and nothing here can fail:
// a `$` without two hex digits and a trailing backslash pass through
// verbatim.
func Unescape(value string) string {
	if !strings.ContainsAny(value, "\\$") {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))

	for i := 0; i < len(value); {
		switch value[i] {
		case '$':
			if i+2 < len(value) && isHex(value[i+1]) && isHex(value[i+2]) {
				b.WriteByte(hexVal(value[i+1])<<4 | hexVal(value[i+2]))
				i += 3
			} else {
				b.WriteByte('$')
				i++
			}
		case '\\':
			switch {
			case i+1 >= len(value):
				b.WriteByte('\\')
				i++
			case value[i+1] == '\r' && i+2 < len(value) && value[i+2] == '\n':
				i += 3
			case value[i+1] == '\n':
				i += 2
			default:
				b.WriteByte(value[i+1])
				i += 2
			}
		default:
			b.WriteByte(value[i])
			i++
		}
	}
	return b.String()
}

func isHex(ch byte) bool {
	return ('0' <= ch && ch <= '9') ||
		('a' <= ch && ch <= 'f') ||
		('A' <= ch && ch <= 'F')
}

func hexVal(ch byte) byte {
	switch {
	case ch <= '9':
		return ch - '0'
	case ch <= 'F':
		return ch - 'A' + 10
	default:
		return ch - 'a' + 10
	}
}
