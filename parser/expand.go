package parser

import "strings"

func isVarStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isVarChar(c byte) bool {
	return isVarStart(c) || (c >= '0' && c <= '9')
}

// expand substitutes $NAME and ${NAME} references against env. Undefined
// variables expand to the empty string. Expansion is suppressed inside
// single-quoted spans but performed inside double-quoted ones. A $ with no
// following name character, or at the end of the string, stays literal.
// The result may not exceed max bytes.
func expand(input string, env Env, max int) (string, error) {
	var out strings.Builder
	out.Grow(len(input))

	inSingle := false
	i := 0
	for i < len(input) {
		c := input[i]

		if c == '\'' {
			inSingle = !inSingle
			out.WriteByte(c)
			i++
			continue
		}
		if inSingle || c != '$' {
			out.WriteByte(c)
			i++
			continue
		}

		// Variable reference.
		i++
		if i >= len(input) {
			out.WriteByte('$')
			break
		}

		if input[i] == '{' {
			end := strings.IndexByte(input[i:], '}')
			if end < 0 {
				return "", ErrSyntax
			}
			name := input[i+1 : i+end]
			i += end + 1
			if name != "" {
				if v, ok := env.Get(name); ok {
					out.WriteString(v)
				}
			}
			continue
		}

		if !isVarStart(input[i]) {
			out.WriteByte('$')
			continue
		}

		start := i
		for i < len(input) && isVarChar(input[i]) {
			i++
		}
		if v, ok := env.Get(input[start:i]); ok {
			out.WriteString(v)
		}
	}

	if max > 0 && out.Len() > max {
		return "", ErrArgTooLong
	}
	return out.String(), nil
}

// stripComment removes an unquoted # and everything after it. Quote state
// is tracked so a # inside a quoted span survives.
func stripComment(line string) string {
	inSingle := false
	inDouble := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '#':
			if !inSingle && !inDouble {
				return line[:i]
			}
		}
	}
	return line
}
