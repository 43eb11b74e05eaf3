package jsonconfig

import "bytes"

// StripComments removes // line comments and /* */ block comments from a JSON
// document, leaving string literals intact. Newlines inside removed comments
// are kept so decoder error offsets still point at the right line.
func StripComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString, escaped := false, false

	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '/' && i+1 < len(data) {
			switch data[i+1] {
			case '/':
				for i < len(data) && data[i] != '\n' {
					i++
				}
				if i < len(data) {
					out = append(out, '\n')
				}
				continue
			case '*':
				end := bytes.Index(data[i+2:], []byte("*/"))
				if end < 0 {
					// Unterminated: drop the rest.
					return out
				}
				out = append(out, ' ')
				out = append(out, bytes.Repeat([]byte{'\n'}, bytes.Count(data[i+2:i+2+end], []byte{'\n'}))...)
				i += end + 3
				continue
			}
		}

		if c == '"' {
			inString = true
		}
		out = append(out, c)
	}
	return out
}
