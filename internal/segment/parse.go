package segment

import "strings"

// Parse converts canonical text into a normalized segment sequence.
//
// A token is recognized only when "{{" is immediately followed by one or more
// identifier characters and then "}}". Anything else, including whitespace
// inside the braces, stays literal text. Parse never fails and never drops
// characters, so Serialize(Parse(s)) == s for every s.
func Parse(raw string) []Segment {
	var (
		segs    []Segment
		literal strings.Builder
	)
	flush := func() {
		if literal.Len() > 0 {
			segs = append(segs, Literal(literal.String()))
			literal.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		if strings.HasPrefix(raw[i:], OpenMarker) {
			if name, end, ok := scanToken(raw, i); ok {
				flush()
				segs = append(segs, Token(name))
				i = end
				continue
			}
		}
		// Not a token start: keep one byte and rescan from the next one so an
		// inner "{{" (as in "{{{name}}") is still found.
		literal.WriteByte(raw[i])
		i++
	}
	flush()

	return Normalize(segs)
}

// scanToken checks for a well-formed token starting at raw[start] ("{{").
// Returns the name and the byte offset just past the closing marker.
func scanToken(raw string, start int) (name string, end int, ok bool) {
	j := start + len(OpenMarker)
	k := j
	for k < len(raw) && isIdentByte(raw[k]) {
		k++
	}
	if k == j {
		return "", 0, false
	}
	if !strings.HasPrefix(raw[k:], CloseMarker) {
		return "", 0, false
	}
	return raw[j:k], k + len(CloseMarker), true
}

// IsIdentifier reports whether s matches [A-Za-z0-9_]+.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}

func isIdentByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
