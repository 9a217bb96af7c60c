// Package fieldparser locates a single named top-level JSON field inside a
// decoded JWT payload and reports its exact byte offsets, without doing a
// full JSON parse — mirroring what the verifying circuit itself has to do
// on the encoded bytes.
package fieldparser

import (
	"fmt"
	"strings"
)

// ParsedField is the output of Find: byte offsets into the decoded payload
// string, plus the extracted key/value.
type ParsedField struct {
	Index       int
	Key         string
	Value       string
	ColonIndex  int
	ValueIndex  int
	WholeField  string
}

// Find locates the named field in the decoded JSON payload and returns its
// exact boundaries. index is the byte offset of the opening quote of the
// key; WholeField spans from that quote through (and including) the comma
// or closing brace that terminates the field.
func Find(payload, name string) (ParsedField, error) {
	needle := `"` + name + `"`
	idx := -1
	search := 0
	for {
		pos := strings.Index(payload[search:], needle)
		if pos == -1 {
			return ParsedField{}, fmt.Errorf("field not found: %s", name)
		}
		abs := search + pos
		// Must be a key: the quote must open at a position preceded only by
		// whitespace/`{`/`,` (i.e. be a genuine object key, not a substring
		// occurring inside some other field's value). We approximate this
		// by requiring the char before the opening quote be one of
		// '{' ',' or whitespace, and the char after the closing quote
		// (skipping whitespace) be ':'.
		if abs == 0 || isKeyPrefix(payload[abs-1]) {
			closeQuote := abs + len(needle) - 1
			next := closeQuote + 1
			for next < len(payload) && isSpace(payload[next]) {
				next++
			}
			if next < len(payload) && payload[next] == ':' {
				idx = abs
				break
			}
		}
		search = abs + 1
	}

	colonIdx := idx + len(needle)
	for payload[colonIdx] != ':' {
		colonIdx++
	}

	valueIdx := colonIdx + 1
	for valueIdx < len(payload) && isSpace(payload[valueIdx]) {
		valueIdx++
	}
	if valueIdx >= len(payload) {
		return ParsedField{}, fmt.Errorf("malformed field: %s has no value", name)
	}

	var value string
	var endIdx int // index just past the value, before trailing comma/brace
	if payload[valueIdx] == '"' {
		end := valueIdx + 1
		for end < len(payload) {
			if payload[end] == '"' && !isEscaped(payload, end) {
				break
			}
			end++
		}
		if end >= len(payload) {
			return ParsedField{}, fmt.Errorf("malformed field: %s has unterminated string value", name)
		}
		value = payload[valueIdx+1 : end]
		endIdx = end + 1
	} else {
		end := valueIdx
		for end < len(payload) && payload[end] != ',' && payload[end] != '}' {
			end++
		}
		value = strings.TrimRight(payload[valueIdx:end], " \t\r\n")
		endIdx = valueIdx + len(value)
	}

	wholeEnd := endIdx
	for wholeEnd < len(payload) && isSpace(payload[wholeEnd]) {
		wholeEnd++
	}
	if wholeEnd < len(payload) && (payload[wholeEnd] == ',' || payload[wholeEnd] == '}') {
		wholeEnd++
	}

	return ParsedField{
		Index:      idx,
		Key:        name,
		Value:      value,
		ColonIndex: colonIdx,
		ValueIndex: valueIdx,
		WholeField: payload[idx:wholeEnd],
	}, nil
}

func isKeyPrefix(b byte) bool {
	return b == '{' || b == ',' || isSpace(b)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// isEscaped reports whether payload[i] (a '"') is preceded by an odd number
// of backslashes, i.e. is itself escaped and does not terminate the string.
func isEscaped(payload string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && payload[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// StringBodies computes, for the given whole-field substring, a per-byte
// boolean vector true exactly for bytes strictly interior to a JSON string
// literal (neither the opening nor closing quote). Defined by a two-byte
// lookback state machine (spec.md §4.2).
func StringBodies(s string) []bool {
	b := []byte(s)
	bodies := make([]bool, len(b))
	if len(b) == 0 {
		return bodies
	}
	bodies[0] = false
	if len(b) > 1 {
		bodies[1] = b[0] == '"'
	}
	for i := 2; i < len(b); i++ {
		switch {
		case !bodies[i-2] && b[i-1] == '"' && b[i-2] != '\\':
			bodies[i] = true
		case bodies[i-1] && b[i] == '"' && b[i-1] != '\\':
			bodies[i] = false
		default:
			bodies[i] = bodies[i-1]
		}
	}
	return bodies
}
