package attr

import "io"

// ReadString consumes a quoted string with C-style escape sequences from r.
// Everything up to the first '"' is discarded; the string runs to the next
// unescaped '"'. End of input before the closing quote yields "".
func ReadString(r io.ByteScanner) string {
	// Skip to the opening quote.
	for {
		c, err := r.ReadByte()
		if err != nil {
			return ""
		}
		if c == '"' {
			break
		}
	}

	var value []byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			return ""
		}
		if c == '"' {
			break
		}
		if c != '\\' {
			value = append(value, c)
			continue
		}

		e0, err := r.ReadByte()
		if err != nil {
			return ""
		}
		switch e0 {
		case 'a':
			value = append(value, '\a')
		case 'b':
			value = append(value, '\b')
		case 'f':
			value = append(value, '\f')
		case 'n':
			value = append(value, '\n')
		case 'r':
			value = append(value, '\r')
		case 't':
			value = append(value, '\t')
		case 'v':
			value = append(value, '\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			// Up to three octal digits, most significant first.
			b := e0 - '0'
			if e1, ok := peekDigit(r, 8); ok {
				if e2, ok := peekDigit(r, 8); ok {
					value = append(value, (b<<6)|(e1<<3)|e2)
				} else {
					value = append(value, (b<<3)|e1)
				}
			} else {
				value = append(value, b)
			}
		case 'x':
			// One or more hex digits accumulated into a single byte.
			var b byte
			for {
				d, ok := peekDigit(r, 16)
				if !ok {
					break
				}
				b = (b << 4) | d
			}
			value = append(value, b)
		default:
			value = append(value, e0)
		}
	}

	return string(value)
}

// peekDigit consumes and returns the next byte if it is a digit in the given
// base, leaving the stream untouched otherwise.
func peekDigit(r io.ByteScanner, base byte) (byte, bool) {
	c, err := r.ReadByte()
	if err != nil {
		return 0, false
	}
	d, ok := digitValue(c)
	if !ok || d >= base {
		r.UnreadByte()
		return 0, false
	}
	return d, true
}

func digitValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
