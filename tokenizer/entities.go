package tokenizer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/go-html5parse/html5parse/internal/constants"
)

// decodeNumericEntity resolves the digits of a &#NNNN; or &#xHHHH; reference
// to the rune it denotes, substituting U+FFFD for anything the HTML5
// numeric-character-reference table disallows (surrogates, out-of-range
// code points) or for a table-specific Windows-1252 remap.
func decodeNumericEntity(digits string, isHex bool) rune {
	base := 10
	if isHex {
		base = 16
	}
	n, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return unicode.ReplacementChar
	}
	cp := int(n)

	if mapped, ok := constants.NumericReplacements[cp]; ok {
		return mapped
	}
	if cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) {
		return unicode.ReplacementChar
	}
	return rune(cp)
}

// entityScanner walks a decoded text run looking for '&' and resolving
// whatever reference (if any) follows it, per the WHATWG "named character
// reference" and "numeric character reference" states folded into a single
// post-hoc pass rather than the tokenizer's own state machine.
type entityScanner struct {
	src         []rune
	pos         int
	inAttribute bool
	out         []rune
}

// decodeEntitiesInText expands every character and numeric reference inside
// text, matching attribute-value semantics (ambiguous ampersand handling
// differs there) when inAttribute is set.
func decodeEntitiesInText(text string, inAttribute bool) string {
	if !strings.ContainsRune(text, '&') {
		return text
	}
	s := &entityScanner{
		src:         []rune(text),
		inAttribute: inAttribute,
		out:         make([]rune, 0, len(text)),
	}
	for s.pos < len(s.src) {
		amp := s.findNext('&')
		if amp < 0 {
			s.out = append(s.out, s.src[s.pos:]...)
			break
		}
		s.out = append(s.out, s.src[s.pos:amp]...)
		s.pos = amp
		s.consumeReference()
	}
	return string(s.out)
}

func (s *entityScanner) findNext(target rune) int {
	for i := s.pos; i < len(s.src); i++ {
		if s.src[i] == target {
			return i
		}
	}
	return -1
}

func (s *entityScanner) at(i int) rune {
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

// consumeReference assumes s.pos points at '&' and advances s.pos past
// whatever reference (numeric, named, or a bare literal ampersand) it finds,
// appending the resolved text to s.out as it goes.
func (s *entityScanner) consumeReference() {
	if s.at(s.pos+1) == '#' {
		s.consumeNumericReference()
		return
	}
	s.consumeNamedReference()
}

func (s *entityScanner) consumeNumericReference() {
	cursor := s.pos + 2 // past "&#"
	isHex := false
	if c := s.at(cursor); c == 'x' || c == 'X' {
		isHex = true
		cursor++
	}

	digitsStart := cursor
	cursor = scanDigits(s.src, cursor, isHex)
	digits := string(s.src[digitsStart:cursor])

	if digits == "" {
		// "&#" or "&#x" with nothing numeric following: not a reference.
		s.emitLiteralUpTo(cursor)
		return
	}

	hasSemicolon := s.at(cursor) == ';'
	s.out = append(s.out, decodeNumericEntity(digits, isHex))
	if hasSemicolon {
		cursor++
	}
	s.pos = cursor
}

func scanDigits(runes []rune, from int, isHex bool) int {
	i := from
	for i < len(runes) {
		c := runes[i]
		isDigit := c >= '0' && c <= '9'
		isHexLetter := isHex && ((c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F'))
		if !isDigit && !isHexLetter {
			break
		}
		i++
	}
	return i
}

// emitLiteralUpTo copies the raw, unresolved reference text through cursor
// (a malformed "&#" with no digits) and advances past it.
func (s *entityScanner) emitLiteralUpTo(cursor int) {
	hasSemicolon := s.at(cursor) == ';'
	if hasSemicolon {
		cursor++
	}
	s.out = append(s.out, s.src[s.pos:cursor]...)
	s.pos = cursor
}

func (s *entityScanner) consumeNamedReference() {
	nameEnd := s.pos + 1
	for nameEnd < len(s.src) && isEntityNameRune(s.src[nameEnd]) {
		nameEnd++
	}
	name := string(s.src[s.pos+1 : nameEnd])

	if name == "" {
		s.out = append(s.out, '&')
		s.pos++
		return
	}

	hasSemicolon := s.at(nameEnd) == ';'

	if hasSemicolon {
		if value, ok := constants.NamedEntities[name]; ok {
			s.out = append(s.out, []rune(value)...)
			s.pos = nameEnd + 1
			return
		}
		if !s.inAttribute {
			if prefix, value, ok := longestLegacyPrefix(name); ok {
				s.out = append(s.out, []rune(value)...)
				s.pos += 1 + len(prefix)
				return
			}
		}
	}

	// No terminating semicolon: only legacy (pre-HTML5) entity names may
	// still resolve, and attribute contexts additionally refuse to treat
	// the match as a reference when it is immediately followed by an
	// alphanumeric or '=' (the "ambiguous ampersand" carve-out).
	if constants.LegacyEntities[name] {
		if value, ok := constants.NamedEntities[name]; ok {
			if s.inAttribute && followsAmbiguousAmpersand(s.at(nameEnd)) {
				s.out = append(s.out, '&')
				s.pos++
				return
			}
			s.out = append(s.out, []rune(value)...)
			s.pos = nameEnd
			return
		}
	}

	if prefix, value, ok := longestLegacyPrefix(name); ok {
		if s.inAttribute {
			s.out = append(s.out, '&')
			s.pos++
			return
		}
		s.out = append(s.out, []rune(value)...)
		s.pos += 1 + len(prefix)
		return
	}

	if hasSemicolon {
		s.out = append(s.out, s.src[s.pos:nameEnd+1]...)
		s.pos = nameEnd + 1
		return
	}
	s.out = append(s.out, '&')
	s.pos++
}

func isEntityNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func followsAmbiguousAmpersand(next rune) bool {
	return next != 0 && (unicode.IsLetter(next) || unicode.IsDigit(next) || next == '=')
}

// longestLegacyPrefix finds the longest prefix of name that is both a
// recognized legacy (semicolon-optional) entity and has a resolved value,
// per the tokenizer's greedy-match rule for entities like "&not" inside
// "&notit".
func longestLegacyPrefix(name string) (prefix, value string, ok bool) {
	for k := len(name); k > 0; k-- {
		candidate := name[:k]
		if !constants.LegacyEntities[candidate] {
			continue
		}
		if v, found := constants.NamedEntities[candidate]; found {
			return candidate, v, true
		}
	}
	return "", "", false
}
