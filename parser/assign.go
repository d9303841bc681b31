package parser

// Assignment reports whether line is a variable assignment of the form
// NAME=value and, if so, returns the two halves. NAME must match
// [A-Za-z_][A-Za-z0-9_]* with = immediately after it. The value is either
// a quoted span (quotes removed, an unterminated quote takes the rest of
// the line) or a bare word ending at whitespace. Validity of the name is
// decided here, not by the variable store.
func Assignment(line string) (name, value string, ok bool) {
	i := 0
	for i < len(line) && isSpace(line[i]) {
		i++
	}
	if i >= len(line) || !isVarStart(line[i]) {
		return "", "", false
	}

	start := i
	for i < len(line) && isVarChar(line[i]) {
		i++
	}
	if i >= len(line) || line[i] != '=' {
		return "", "", false
	}
	name = line[start:i]
	i++

	if i < len(line) && (line[i] == '"' || line[i] == '\'') {
		quote := line[i]
		i++
		start = i
		for i < len(line) && line[i] != quote {
			i++
		}
		value = line[start:i]
	} else {
		start = i
		for i < len(line) && !isSpace(line[i]) {
			i++
		}
		value = line[start:i]
	}
	return name, value, true
}
